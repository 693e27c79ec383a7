package helper

import "fmt"

// OptionalOne flattens an optional trailing argument into a single value.
//
// Accepts either 0 or 1 values and falls back to def when none is given.
// Panics if more than one is passed.
func OptionalOne[T any](opts []T, def T) T {
	switch len(opts) {
	case 1:
		return opts[0]
	case 0:
		return def
	default:
		panic(fmt.Sprintf("OptionalOne: only one or zero values allowed, got %d", len(opts)))
	}
}
