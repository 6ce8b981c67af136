package errdefs

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrIO               = errors.New("io failure")
	ErrValidation       = errors.New("validation error")
)
