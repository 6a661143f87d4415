package recipe

import "errors"

var (
	ErrMissingBaseImage   = errors.New("no base image defined")
	ErrInvalidBaseImage   = errors.New("invalid base image reference")
	ErrMissingPlaceholder = errors.New("missing template placeholder value")
	ErrMalformedTemplate  = errors.New("malformed template")
)
