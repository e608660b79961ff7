package core

import "errors"

var (
	// ErrBadFormat is returned for malformed dual-reference inputs.
	ErrBadFormat = errors.New("incorrect query format")
	// ErrTypeMismatch is returned when the two sides of a dual-reference
	// input refer to different list types.
	ErrTypeMismatch = errors.New("mismatched list types")
	// ErrLengthMismatch is returned when the two sides of a dual-reference
	// input report different member counts.
	ErrLengthMismatch = errors.New("mismatched list lengths")
	// ErrAuthRequired is returned when an operation needs a signed-in
	// session that is absent.
	ErrAuthRequired = errors.New("user authentication required")
	// ErrNotFound is returned when the catalog has no matching entity.
	ErrNotFound = errors.New("not found")
	// ErrNetwork is returned on transport-level failures, including
	// short-link resolution timeouts.
	ErrNetwork = errors.New("network failure")
	// ErrMissingData is returned when re-resolution is attempted on a track
	// lacking any usable fetch key.
	ErrMissingData = errors.New("missing required track data")
)
