package sticky

import (
	"fmt"

	"github.com/on-the-ground/lazy_ive_go/lazy"
)

// Value memoizes a single computed value.
//
// It is a Sticky over a source of zero or one element, so it shares the same
// guarantees: fn runs until it first succeeds and never again, and a failed
// attempt is not remembered.
type Value[T any] struct {
	sticky *Sticky[T]
}

// NewValue memoizes fn.
func NewValue[T any](fn func() (T, error), config ...lazy.Config) *Value[T] {
	return NewOptional(func() (T, bool, error) {
		v, err := fn()
		return v, err == nil, err
	}, config...)
}

// NewOptional memoizes fn, which may report that there is no value.
func NewOptional[T any](fn func() (T, bool, error), config ...lazy.Config) *Value[T] {
	return &Value[T]{
		sticky: New[T](single(fn), config...),
	}
}

// Ready wraps an already known value.
func Ready[T any](v T) *Value[T] {
	return NewValue(func() (T, error) { return v, nil })
}

// Get returns the memoized value, computing it on first use.
// An optional without a value fails with lazy.ErrNoSuchElement.
func (v *Value[T]) Get() (T, error) {
	res, ok, err := v.sticky.at(0)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, fmt.Errorf("%w: empty value", lazy.ErrNoSuchElement)
	}
	return res, nil
}

// Resolved reports whether the value (or its absence) is already known.
func (v *Value[T]) Resolved() bool {
	return v.sticky.Buffered() > 0 || v.sticky.Ended()
}

// Sticky exposes the underlying one-element sequence.
func (v *Value[T]) Sticky() *Sticky[T] {
	return v.sticky
}

// single is a source that asks fn until it answers, then ends.
func single[T any](fn func() (T, bool, error)) lazy.Producer[T] {
	return func() lazy.Cursor[T] {
		done := false
		return lazy.CursorFunc[T](func() (T, bool, error) {
			var zero T
			if done {
				return zero, false, nil
			}
			v, ok, err := fn()
			if err != nil {
				return zero, false, err
			}
			done = true
			if !ok {
				return zero, false, nil
			}
			return v, true, nil
		})
	}
}
