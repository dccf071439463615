package model

import "errors"

// Sentinel errors shared across store implementations and services. Handlers
// map ErrNotFound to 404 and ErrValidation to 400; neither is fatal.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
