package domain

import "errors"

// Common domain errors
var (
	ErrAuthorizationDenied   = errors.New("authorization denied")
	ErrValidation            = errors.New("validation failed")
	ErrDirectoryUnavailable  = errors.New("directory unavailable")
	ErrSinkWriteFailure      = errors.New("sink write failed")
	ErrMalformedDirectoryRow = errors.New("malformed directory row")
)

// Role management errors
var (
	ErrOwnerImmutable     = errors.New("owner cannot be changed")
	ErrInvalidPrincipalID = errors.New("invalid principal id")
	ErrPrincipalNotFound  = errors.New("principal not found in directory")
)

// Session errors
var (
	ErrSessionInProgress = errors.New("check-in already in progress")
)
