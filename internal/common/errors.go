// Package common defines sentinel errors and user-facing messages shared by
// the credential service layers. Callers should use errors.Is to match the
// error values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors. ErrorInternal hides storage and infrastructure
	// detail from callers.
	ErrorInternal = errors.New("internal error")

	// Startup errors.
	ErrorInvalidConfig = errors.New("invalid config")
)
