// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package apperr defines the centralized error handling framework for the console.

It provides a rich error type that bridges collaborator failures, local
validation and storage problems on one side, and the view/HTTP layer on the
other.

Taxonomy:

  - Transport: the REST call could not complete.
  - ServerReported: the collaborator answered, but flagged failure.
  - CorruptedState: persisted client state could not be parsed.
  - Validation / NoSession / NotFound: local preconditions.

Every error that leaves a view should be an [AppError] so the view can keep a
message for rendering and the HTTP surface can map it to a status code.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the console.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never rendered.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "UPSTREAM_REJECTED").
	Code string `json:"code"`
	// Message is a human-readable description safe to show to staff.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
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

// # Error Codes

const (
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNoSession        = "NO_SESSION"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUpstreamDown     = "UPSTREAM_UNREACHABLE"
	CodeUpstreamRejected = "UPSTREAM_REJECTED"
	CodeCorruptedState   = "CORRUPTED_STATE"
	CodeInternal         = "INTERNAL_ERROR"
)

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Session") // Returns "Session not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NoSession creates a 401 [AppError] for operations that need a logged-in user.
func NoSession() *AppError {
	return &AppError{
		Code:       CodeNoSession,
		Message:    "No active session. Please sign in.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Conflict creates a 409 [AppError].
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Collaborator Errors

// Transport creates a 502 [AppError] for a REST call that could not complete
// (DNS, refused connection, timeout, unreadable body).
func Transport(cause error) *AppError {
	return &AppError{
		Code:       CodeUpstreamDown,
		Message:    "The messaging service could not be reached",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// ServerReported creates an [AppError] for a collaborator response that
// flagged failure. status is the transport status; a 2xx status whose body
// carried a failure indicator maps to 502.
func ServerReported(status int, msg string) *AppError {
	if msg == "" {
		msg = "The messaging service rejected the request"
	}

	httpStatus := status
	if status < http.StatusBadRequest {
		httpStatus = http.StatusBadGateway
	}

	return &AppError{
		Code:       CodeUpstreamRejected,
		Message:    msg,
		HTTPStatus: httpStatus,
	}
}

// CorruptedState creates a 500 [AppError] for a persisted key that could not
// be parsed. The session store logs it and resets itself; it never reaches a view.
func CorruptedState(key string, cause error) *AppError {
	return &AppError{
		Code:       CodeCorruptedState,
		Message:    fmt.Sprintf("Persisted %s is corrupted", key),
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected error.
// The cause is stored for logging but is never rendered.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
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

// From returns err as an [*AppError], wrapping unknown errors as Internal.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae := As(err); ae != nil {
		return ae
	}
	return Internal(err)
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
