package lazy

import (
	"errors"
	"fmt"
	"iter"
)

// All ranges over a fresh cursor of s.
// A producer failure is yielded once as (zero, err) and ends the iteration.
func All[T any](s Sequence[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		c := s.Cursor()
		for {
			v, ok, err := c.Next()
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect drains a fresh cursor of s into a slice.
func Collect[T any](s Sequence[T]) ([]T, error) {
	var out []T
	for v, err := range All(s) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// indexed is implemented by sequences with cheap random access.
type indexed[T any] interface {
	ItemAt(i int) (T, error)
}

// ItemAt returns the element at position i.
// Fails with ErrNoSuchElement if s has i or fewer elements.
func ItemAt[T any](s Sequence[T], i int) (T, error) {
	var zero T
	if i < 0 {
		return zero, fmt.Errorf("%w: negative index %d", ErrNoSuchElement, i)
	}
	if ix, ok := s.(indexed[T]); ok {
		return ix.ItemAt(i)
	}
	c := s.Cursor()
	for pos := 0; ; pos++ {
		v, ok, err := c.Next()
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, fmt.Errorf("%w: index %d, length %d", ErrNoSuchElement, i, pos)
		}
		if pos == i {
			return v, nil
		}
	}
}

// ItemAtOr is ItemAt with an explicit fallback for exhaustion.
// Producer failures are still returned.
func ItemAtOr[T any](s Sequence[T], i int, fallback T) (T, error) {
	v, err := ItemAt(s, i)
	if err != nil {
		if errors.Is(err, ErrNoSuchElement) {
			return fallback, nil
		}
		return v, err
	}
	return v, nil
}

// First returns the first element of s.
func First[T any](s Sequence[T]) (T, error) {
	return ItemAt(s, 0)
}
