// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package effect

import (
	"net/http"
	"time"

	"code.hybscloud.com/kont"
)

// # Terminal Values

// Terminal identifies the primitive that ended an exchange.
type Terminal uint8

const (
	TerminalNone Terminal = iota
	TerminalEmit
	TerminalRedirect
	TerminalFile
)

// String implements [fmt.Stringer].
func (t Terminal) String() string {
	switch t {
	case TerminalEmit:
		return "emit"
	case TerminalRedirect:
		return "redirect"
	case TerminalFile:
		return "file"
	default:
		return "none"
	}
}

// Done is the result of a terminal primitive. A route computation has type
// kont.Eff[Done], so it can only finish by emitting, redirecting or
// streaming a file.
type Done struct {
	terminal Terminal
}

// Terminal reports which primitive produced d.
func (d Done) Terminal() Terminal { return d.terminal }

// # Operations

// Emit writes a complete response.
type Emit struct {
	kont.Phantom[Done]
	Status int
	Header http.Header
	Body   []byte
}

// Redirect answers with 303 See Other.
type Redirect struct {
	kont.Phantom[Done]
	Location string
	Header   http.Header
}

// WriteFile streams a static file. A zero MaxAge sends no caching header.
type WriteFile struct {
	kont.Phantom[Done]
	Path   string
	MaxAge time.Duration
}

// ReadBody delivers the raw request body.
type ReadBody struct {
	kont.Phantom[[]byte]
}

// Await suspends until Future resolves.
type Await[T any] struct {
	kont.Phantom[Outcome[T]]
	Future Future[T]
}

// Execute runs Query against the executor's database.
type Execute[DB, T any] struct {
	kont.Phantom[Outcome[T]]
	Query Query[DB, T]
}

// # Constructors

// Write emits body with the given status and headers.
func Write(status int, header http.Header, body []byte) kont.Eff[Done] {
	return kont.Perform(Emit{Status: status, Header: header, Body: body})
}

// SeeOther redirects to location with 303 See Other.
func SeeOther(location string, header http.Header) kont.Eff[Done] {
	return kont.Perform(Redirect{Location: location, Header: header})
}

// File streams the file at path.
func File(path string, maxAge time.Duration) kont.Eff[Done] {
	return kont.Perform(WriteFile{Path: path, MaxAge: maxAge})
}

// Body reads the request body and continues with k.
func Body(k func(body []byte) kont.Eff[Done]) kont.Eff[Done] {
	return kont.Bind(kont.Perform(ReadBody{}), k)
}

// AwaitThen suspends until future resolves and continues with its outcome.
func AwaitThen[T any](future Future[T], k func(Outcome[T]) kont.Eff[Done]) kont.Eff[Done] {
	return kont.Bind(kont.Perform(Await[T]{Future: future}), k)
}

// Exec runs query and continues with its outcome. Failures arrive as values.
func Exec[DB, T any](query Query[DB, T], k func(Outcome[T]) kont.Eff[Done]) kont.Eff[Done] {
	return kont.Bind(kont.Perform(Execute[DB, T]{Query: query}), k)
}
