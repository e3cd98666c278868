// Package errs defines the error categories surfaced by the service layer.
// Callers classify wrapped errors with errors.Is and map them to HTTP statuses.
package errs

import "errors"

var (
	// ErrValidation marks bad field values (HTTP 400).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing record (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied marks an ownership mismatch or missing
	// authentication on a protected mutation (HTTP 403).
	ErrPermissionDenied = errors.New("permission denied")
)
