package format

import "errors"

var (
	// ErrBadMagic indicates a page header whose magic is not intact.
	ErrBadMagic = errors.New("format: page magic mismatch")
	// ErrTruncated indicates the region lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated region")
)
