// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the failure taxonomy of the site.

Every failure that reaches a response boundary is an [AppError]: it carries the
status code of the page that will be rendered, a client-safe message and, for
server-side logging only, the cause and the file/line where it was caught.

Classes:

  - Authorization: [Unauthorized]
  - CSRF: [CSRF]
  - Not found: [NotFound]
  - Conflict: [Conflict]
  - Throttling: [RateLimited]
  - Upstream: [Internal], [Upstream] (database, third-party or missing async value)

Form validation failures are not AppErrors: they are [FieldError] values
rendered inline next to the submitted input.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the site.
//
// It carries an HTTP status code, a machine-readable code and a client-safe
// message.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Origin is the "file:line" of the boundary that caught the failure.
	Origin string `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the form field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Episode") // Returns "Episode not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// CSRF creates a 403 [AppError] for a state-changing request whose token does
// not match the session's token.
func CSRF() *AppError {
	return &AppError{
		Code:       "CSRF_MISMATCH",
		Message:    "Something went wrong. Please reload the page and try again.",
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Upstream creates a 500 [AppError] for a failed or missing third-party result.
// service names the remote system for the logs only.
func Upstream(service string, cause error) *AppError {
	return &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      fmt.Errorf("%s: %w", service, cause),
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// From normalises err into an [*AppError]. Errors outside the taxonomy become
// [Internal] failures.
func From(err error) *AppError {
	if ae := As(err); ae != nil {
		return ae
	}
	return Internal(err)
}

// At returns a copy of err's [*AppError] annotated with the given provenance.
// An origin that is already set is kept, so the innermost boundary wins.
func At(err error, file string, line int) *AppError {
	ae := *From(err)
	if ae.Origin == "" {
		ae.Origin = fmt.Sprintf("%s:%d", file, line)
	}
	return &ae
}
