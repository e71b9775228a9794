// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yomira-cast/internal/platform/apperr"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
// action names the failed operation in snake_case for the logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint violations
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		conflict := apperr.Conflict("Resource already exists")
		conflict.Cause = fmt.Errorf("%s: %w", action, err)
		return conflict
	}

	// 3. Everything else becomes an Internal Server Error
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsNotFound reports whether err is the not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
