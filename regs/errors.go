package regs

import "errors"

// Errors returned for arguments outside an accessor's domain. State is never
// modified when one of these is returned.
var (
	ErrInvalidIndex   = errors.New("invalid register index")
	ErrInvalidWidth   = errors.New("invalid register width")
	ErrInvalidSegment = errors.New("invalid segment register")
)
