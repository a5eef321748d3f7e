package altofs

import "errors"

// Sentinel errors identifying the error kinds from the error handling
// design: invalid argument, I/O failure, format violation, not found,
// exhaustion, and cursor invalidation. Callers use errors.Is against
// these to classify a failure without parsing messages. ErrCursorInvalid
// is not returned by this package: a cursor carrying a sticky error
// returns that same error from every later Read, Write and Trim.
var (
	ErrInvalidArgument = errors.New("altofs: invalid argument")
	ErrIO              = errors.New("altofs: i/o failure")
	ErrFormat          = errors.New("altofs: format violation")
	ErrNotFound        = errors.New("altofs: not found")
	ErrExhausted       = errors.New("altofs: disk full")
	ErrCursorInvalid   = errors.New("altofs: cursor invalidated by prior error")
)
