package domain

import "errors"

var (
	ErrUnauthenticated   = errors.New("invalid authentication credentials")
	ErrForbidden         = errors.New("the user doesn't have enough privileges")
	ErrConflict          = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid state transition")
)
