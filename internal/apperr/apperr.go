// Package apperr defines the error taxonomy shared across every module
// and the fiber error handler that maps it onto HTTP responses.
package apperr

import (
	"fmt"
	"time"
)

// Kind is one of the closed set of error kinds.
type Kind string

const (
	KindValidation Kind = "validation_error"
	KindAuth       Kind = "auth_error"
	KindPermission Kind = "permission_error"
	KindNotFound   Kind = "not_found_error"
	KindConflict   Kind = "conflict_error"
	KindRateLimit  Kind = "rate_limit_error"
	KindProvider   Kind = "provider_error"
	KindInternal   Kind = "internal_error"
)

// statusCodes maps each Kind to its HTTP status.
var statusCodes = map[Kind]int{
	KindValidation: 400,
	KindAuth:       401,
	KindPermission: 403,
	KindNotFound:   404,
	KindConflict:   409,
	KindRateLimit:  429,
	KindProvider:   502,
	KindInternal:   500,
}

// Error is the application-wide error type. It carries a Kind (used by
// the fiber error handler to pick a status code and response shape),
// a human message, and optional field-level detail for validation
// errors or rate-limit metadata.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	RateLimit *RateLimitDetail
	cause   error
}

// RateLimitDetail is the structured payload a RateLimitError carries
// (§6, §7, S6): {limit, reset_at, suggestion}.
type RateLimitDetail struct {
	Limit      int       `json:"limit"`
	ResetAt    time.Time `json:"reset_at"`
	Suggestion string    `json:"suggestion"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// StatusCode returns the HTTP status code for this error's Kind.
func (e *Error) StatusCode() int {
	if code, ok := statusCodes[e.Kind]; ok {
		return code
	}
	return 500
}

// Validation builds a ValidationError (400), optionally with field detail.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Auth builds an AuthError (401).
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Permission builds a PermissionError (403).
func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// NotFound builds a NotFoundError (404).
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a ConflictError (409).
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// RateLimit builds a RateLimitError (429) carrying the structured
// {limit, reset_at, suggestion} detail required by §6/S6.
func RateLimit(message string, detail RateLimitDetail) *Error {
	return &Error{Kind: KindRateLimit, Message: message, RateLimit: &detail}
}

// Provider builds a ProviderError. Callers in C3's batch dispatch must
// swallow this per item rather than propagate it to the HTTP layer
// (§4.4, §7) — it is exported mainly so C2's synchronous upload path
// can surface a 502 when the provider itself is unreachable.
func Provider(message string, cause error) *Error {
	return &Error{Kind: KindProvider, Message: message, cause: cause}
}

// Internal builds an unexpected-failure error (500). The cause is
// logged but never included in the HTTP response body.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	appErr, ok := err.(*Error)
	if !ok {
		return false
	}
	return appErr.Kind == kind
}
