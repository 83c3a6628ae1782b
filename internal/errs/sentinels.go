// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrInvalidCredentials covers both an unknown userid and a wrong one-time code.
	// Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid userid or password")

	// ErrValidation indicates rejected input (e.g. empty message text).
	ErrValidation = errors.New("validation error")

	// ErrStoreUnavailable indicates a storage backend I/O failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidConfig indicates malformed startup configuration.
	ErrInvalidConfig = errors.New("invalid config")
)
