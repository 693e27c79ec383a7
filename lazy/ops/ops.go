// Package ops holds the everyday sequence combinators.
//
// Each combinator takes a live flag and returns a ternary.Ternary: with
// live == true every iteration re-runs the whole chain, otherwise the first
// iteration's results are memoized and shared.
package ops

import (
	"github.com/on-the-ground/lazy_ive_go/internal/orderedbuffer"
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/ternary"
)

// Mapped applies fn to each element of src.
func Mapped[T, R any](src lazy.Sequence[T], fn func(T) (R, error), live bool, config ...lazy.Config) *ternary.Ternary[R] {
	return ternary.Of[R](live, lazy.Producer[R](func() lazy.Cursor[R] {
		in := src.Cursor()
		// pending survives a failed fn so that a retry maps the same element
		var pending T
		hasPending := false
		return lazy.CursorFunc[R](func() (R, bool, error) {
			var zero R
			if !hasPending {
				v, ok, err := in.Next()
				if err != nil || !ok {
					return zero, false, err
				}
				pending, hasPending = v, true
			}
			res, err := fn(pending)
			if err != nil {
				return zero, false, err
			}
			hasPending = false
			return res, true, nil
		})
	}), config...)
}

// Filtered keeps the elements of src that satisfy pred.
func Filtered[T any](src lazy.Sequence[T], pred func(T) (bool, error), live bool, config ...lazy.Config) *ternary.Ternary[T] {
	return ternary.Of[T](live, lazy.Producer[T](func() lazy.Cursor[T] {
		in := src.Cursor()
		var pending T
		hasPending := false
		return lazy.CursorFunc[T](func() (T, bool, error) {
			var zero T
			for {
				if !hasPending {
					v, ok, err := in.Next()
					if err != nil || !ok {
						return zero, false, err
					}
					pending, hasPending = v, true
				}
				keep, err := pred(pending)
				if err != nil {
					return zero, false, err
				}
				hasPending = false
				if keep {
					return pending, true, nil
				}
			}
		})
	}), config...)
}

// Skipped drops the first n elements of src.
func Skipped[T any](src lazy.Sequence[T], n int, live bool, config ...lazy.Config) *ternary.Ternary[T] {
	return ternary.Of[T](live, lazy.Producer[T](func() lazy.Cursor[T] {
		in := src.Cursor()
		skipped := 0
		return lazy.CursorFunc[T](func() (T, bool, error) {
			for skipped < n {
				v, ok, err := in.Next()
				if err != nil || !ok {
					return v, false, err
				}
				skipped++
			}
			return in.Next()
		})
	}), config...)
}

// Head keeps at most the first n elements of src.
func Head[T any](src lazy.Sequence[T], n int, live bool, config ...lazy.Config) *ternary.Ternary[T] {
	return ternary.Of[T](live, lazy.Producer[T](func() lazy.Cursor[T] {
		in := src.Cursor()
		taken := 0
		return lazy.CursorFunc[T](func() (T, bool, error) {
			if taken >= n {
				var zero T
				return zero, false, nil
			}
			v, ok, err := in.Next()
			if ok {
				taken++
			}
			return v, ok, err
		})
	}), config...)
}

// Joined concatenates srcs. Pass lazy.DefaultConfig() to log nothing.
func Joined[T any](live bool, cfg lazy.Config, srcs ...lazy.Sequence[T]) *ternary.Ternary[T] {
	return ternary.Of[T](live, lazy.Producer[T](func() lazy.Cursor[T] {
		idx := 0
		var in lazy.Cursor[T]
		return lazy.CursorFunc[T](func() (T, bool, error) {
			for idx < len(srcs) {
				if in == nil {
					in = srcs[idx].Cursor()
				}
				v, ok, err := in.Next()
				if err != nil || ok {
					return v, ok, err
				}
				idx++
				in = nil
			}
			var zero T
			return zero, false, nil
		})
	}), cfg)
}

// Sorted orders src by cmp. Equal elements keep their relative order.
// The first Next of a cursor drains src.
func Sorted[T any](src lazy.Sequence[T], cmp func(a, b T) int, live bool, config ...lazy.Config) *ternary.Ternary[T] {
	return ternary.Of[T](live, lazy.Producer[T](func() lazy.Cursor[T] {
		var sorted []T
		filled := false
		pos := 0
		return lazy.CursorFunc[T](func() (T, bool, error) {
			var zero T
			if !filled {
				buf := orderedbuffer.NewOrderedBuffer[T](0, cmp)
				for v, err := range lazy.All(src) {
					if err != nil {
						return zero, false, err
					}
					buf.Insert(v)
				}
				sorted = buf.Values()
				filled = true
			}
			if pos >= len(sorted) {
				return zero, false, nil
			}
			v := sorted[pos]
			pos++
			return v, true, nil
		})
	}), config...)
}

// Distinct drops elements already seen earlier in src.
func Distinct[T comparable](src lazy.Sequence[T], live bool, config ...lazy.Config) *ternary.Ternary[T] {
	return ternary.Of[T](live, lazy.Producer[T](func() lazy.Cursor[T] {
		in := src.Cursor()
		seen := make(map[T]struct{})
		return lazy.CursorFunc[T](func() (T, bool, error) {
			for {
				v, ok, err := in.Next()
				if err != nil || !ok {
					return v, false, err
				}
				if _, dup := seen[v]; dup {
					continue
				}
				seen[v] = struct{}{}
				return v, true, nil
			}
		})
	}), config...)
}
