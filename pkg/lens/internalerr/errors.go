package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyInput    = errors.New("empty input")
	ErrStaleRun      = errors.New("stale run")
	ErrInvalidShape  = errors.New("invalid payload shape")
	ErrInvalidConfig = errors.New("invalid configuration")
)
