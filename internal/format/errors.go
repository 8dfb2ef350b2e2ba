package format

import "errors"

var (
	// ErrPkgLength indicates a construct too large for the 4-byte PkgLength form.
	ErrPkgLength = errors.New("format: package length out of range")
	// ErrFieldRange indicates a header field value that does not fit its layout slot.
	ErrFieldRange = errors.New("format: field value out of range")
)
