package internalerr

import "errors"

// Sentinel errors for common cases
var (
	// ErrInsufficientData means nothing usable survived extraction, or a wine
	// has no profile. Callers show "not enough data" and carry on.
	ErrInsufficientData = errors.New("insufficient data")
	ErrMalformedInput   = errors.New("malformed input")
	ErrIOFailure        = errors.New("io failure")
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
