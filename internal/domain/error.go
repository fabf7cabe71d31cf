package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrInvalidThresholds  = errors.New("invalid classification thresholds")
	ErrLoadFailed         = errors.New("loading user records failed")
	ErrWriteFailed        = errors.New("writing inactive log failed")
	ErrInvalidExecContext = errors.New("invalid execution context")
)
