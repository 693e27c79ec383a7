package lazy

import "errors"

// ErrNoSuchElement reports that a sequence ended before the requested position.
var ErrNoSuchElement = errors.New("no such element")

// ErrReadOnly reports a write attempt on a read-only view.
var ErrReadOnly = errors.New("read-only collection")

// ErrWouldForceLazy reports a bulk read that would have computed every lazy
// value of a view constructed in restrictive mode.
var ErrWouldForceLazy = errors.New("operation would force evaluation of lazy values")

// ErrMissingKey reports a lookup of a key that is not part of a view.
var ErrMissingKey = errors.New("key not found")

// ErrSourcePanicked reports a cursor whose underlying iterator panicked. The
// iterator cannot be resumed, so every later Next fails with this error.
var ErrSourcePanicked = errors.New("source panicked")
