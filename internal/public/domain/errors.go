package domain

import "errors"

// ErrValidation marks input rejected before any query runs.
// Handlers map it to 400.
var ErrValidation = errors.New("validation error")

// ErrNotFound is returned when a requested concert does not exist.
var ErrNotFound = errors.New("not found")
