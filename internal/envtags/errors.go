package envtags

import "errors"

var (
	ErrRuntimeMismatch    = errors.New("runtime version mismatch")
	ErrRuntimeUnavailable = errors.New("runtime version unavailable")
	ErrInvalidVersion     = errors.New("invalid version")
	ErrProbeUnavailable   = errors.New("probe unavailable")
)
