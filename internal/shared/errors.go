package shared

import "errors"

// Sentinel errors shared across domain packages. Callers wrap these with
// context rather than declaring package-local variants of the same condition.
var (
	// ErrNotFound marks lookups of claims, lecturers, users or sessions that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials covers every login failure; the cause is never disclosed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when a mutating request carries no CSRF token.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when the submitted CSRF token fails verification.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
