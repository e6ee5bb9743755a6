package services

import "errors"

// Service error taxonomy. Handlers map these to HTTP classifications; the
// disclosure read path distinguishes exactly two denial reasons and collapses
// everything else to a generic server error.
var (
	ErrNotFound       = errors.New("not found")
	ErrAccessDenied   = errors.New("access denied")
	ErrNotAuthorized  = errors.New("disclosure not authorized")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrInvalidInput   = errors.New("invalid input")
)
