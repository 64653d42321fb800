package wad

import "errors"

var (
	// ErrInvalidFormat reports a bad magic, a truncated header or data that points outside the archive.
	ErrInvalidFormat = errors.New("invalid wad format")

	ErrLumpNotFound = errors.New("lump not found")

	// ErrSectionSizeMismatch reports a lump whose size cannot hold the records it should contain.
	ErrSectionSizeMismatch = errors.New("section size mismatch")

	ErrMapNotFound = errors.New("map not found")

	// ErrMalformedGeometry reports a sector boundary chain that could not be closed. It is not
	// fatal: the partial chain is still triangulated.
	ErrMalformedGeometry = errors.New("malformed geometry")

	ErrPatchIndexOutOfRange = errors.New("patch index out of range")
)
