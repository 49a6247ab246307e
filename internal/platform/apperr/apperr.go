// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

/*
Package apperr defines the centralized error handling framework for Crealink.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Identity: Dedicated constructors for the authentication error kinds so the
    presentation layer can map each kind to a distinct HTTP status.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the canonical error type for the Crealink API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "INVALID_TOKEN").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// Meta carries structured, client-safe context (e.g. locked_until).
	Meta map[string]any `json:"meta,omitempty"`
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

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Campaign") // Returns "Campaign not found"
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

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
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

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
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

// Unprocessable creates a 422 [AppError] for semantically invalid input.
func Unprocessable(msg string) *AppError {
	return &AppError{
		Code:       "UNPROCESSABLE",
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// # Identity Errors

// UserNotFound creates a 404 [AppError] for a failed user lookup.
//
// The message is intentionally generic so callers cannot distinguish an
// unknown email from a wrong password beyond the error kind itself.
func UserNotFound() *AppError {
	return &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidPassword creates a 401 [AppError] for a failed credential check.
func InvalidPassword() *AppError {
	return &AppError{
		Code:       "INVALID_PASSWORD",
		Message:    "Invalid password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// UserAlreadyExists creates a 409 [AppError] for a duplicate registration.
func UserAlreadyExists() *AppError {
	return &AppError{
		Code:       "USER_ALREADY_EXISTS",
		Message:    "User already exists",
		HTTPStatus: http.StatusConflict,
	}
}

// TooManyAttempts creates a 429 [AppError] for a locked-out identifier.
// The lock expiry travels in Meta under "locked_until".
func TooManyAttempts(lockedUntil time.Time) *AppError {
	return &AppError{
		Code:       "TOO_MANY_ATTEMPTS",
		Message:    "Too many login attempts. Account temporarily locked",
		HTTPStatus: http.StatusTooManyRequests,
		Meta:       map[string]any{"locked_until": lockedUntil},
	}
}

// InvalidResetToken creates a 400 [AppError] for a missing, expired, or
// already-consumed password reset token.
func InvalidResetToken() *AppError {
	return &AppError{
		Code:       "INVALID_RESET_TOKEN",
		Message:    "Invalid or expired reset token",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidToken creates a 401 [AppError] covering every token rejection:
// bad signature, expiry, wrong kind, or a revoked/absent session.
func InvalidToken() *AppError {
	return &AppError{
		Code:       "INVALID_TOKEN",
		Message:    "Invalid or expired token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidOAuthState creates a 400 [AppError] for a failed CSRF state check.
func InvalidOAuthState() *AppError {
	return &AppError{
		Code:       "INVALID_OAUTH_STATE",
		Message:    "Invalid or tampered OAuth state token",
		HTTPStatus: http.StatusBadRequest,
	}
}

// OAuthProviderError creates a 502 [AppError] wrapping a provider-side
// failure. The raw provider error is kept server-side in Cause.
func OAuthProviderError(provider string, cause error) *AppError {
	return &AppError{
		Code:       "OAUTH_PROVIDER_ERROR",
		Message:    fmt.Sprintf("OAuth provider '%s' error", provider),
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
		Meta:       map[string]any{"provider": provider},
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

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
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

// IsCode reports whether err is an [*AppError] carrying the given code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
