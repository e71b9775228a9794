// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the site.

It wraps the standard UUID library to specifically generate Version 7 values,
which are optimized for database performance.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

Users, sessions, downloads, CSRF secrets and team invitations all use it.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate id: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}

// Secret generates a random (version 4) UUID string for values that must not
// be guessable, such as CSRF secrets and invitation tokens.
func Secret() string {
	id, err := uuid.NewRandom()
	if err != nil {
		panic("uuid: failed to generate secret: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a canonical UUID string.
// Identifiers from cookies and URLs are checked before they reach a uuid column.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
