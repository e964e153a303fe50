// Copyright (c) 2026 Inkwell CMS. All rights reserved.

/*
Package apperr defines the centralized error handling framework for Inkwell.

It provides a rich error type that bridges the gap between low-level domain
and storage errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a machine-readable Code and a user-friendly message.
  - Taxonomy: UNAUTHENTICATED / ACCOUNT_RESTRICTED / FORBIDDEN / VALIDATION_ERROR /
    NOT_FOUND / CONFLICT / INTERNAL_ERROR.
  - Mapping: Explicit mapping from AppError to standard HTTP status codes.

Every error that leaves the service layer should be wrapped as an [AppError] to
ensure consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Inkwell API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "FORBIDDEN").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"msg"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// Unauthenticated creates a 401 [AppError] for missing, invalid, expired, or
// revoked credentials.
func Unauthenticated(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AccountRestricted creates a 403 [AppError] for banned or inactive accounts.
// Distinct from [Forbidden] so that clients can route users to support flows
// rather than permission-request flows.
func AccountRestricted(msg string) *AppError {
	return &AppError{
		Code:       "ACCOUNT_RESTRICTED",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Forbidden creates a 403 [AppError] for an authenticated caller lacking the
// required role or permission.
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("User") // Returns "User not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 400 [AppError] for duplicate identity registration.
// The legacy API contract reports registration conflicts as 400, so the
// mapping is preserved for client compatibility.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
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

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
