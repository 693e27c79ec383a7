package lazy

import (
	"fmt"
	"iter"
	"runtime"
)

// Cursor is a single consumer's position in a sequence.
//
// Next returns the next element with ok == true. ok == false with a nil error
// means the sequence is exhausted. A non-nil error is a failure of the
// underlying producer; calling Next again retries the same position.
//
// Cursors are not safe for concurrent use. Open one cursor per consumer.
type Cursor[T any] interface {
	Next() (v T, ok bool, err error)
}

// Sequence opens independent cursors over an ordered, possibly unbounded run
// of values.
type Sequence[T any] interface {
	Cursor() Cursor[T]
}

// Producer opens a fresh cursor every time it is called.
// It is also the simplest Sequence: every cursor re-runs the source.
type Producer[T any] func() Cursor[T]

// Cursor calls p.
func (p Producer[T]) Cursor() Cursor[T] {
	return p()
}

// CursorFunc adapts a plain function to the Cursor interface.
type CursorFunc[T any] func() (T, bool, error)

// Next calls f.
func (f CursorFunc[T]) Next() (T, bool, error) {
	return f()
}

// Empty returns a sequence without elements.
func Empty[T any]() Producer[T] {
	return func() Cursor[T] {
		return CursorFunc[T](func() (T, bool, error) {
			var zero T
			return zero, false, nil
		})
	}
}

// FromSlice returns a sequence over items. The slice is not copied.
func FromSlice[T any](items []T) Producer[T] {
	return func() Cursor[T] {
		pos := 0
		return CursorFunc[T](func() (T, bool, error) {
			if pos >= len(items) {
				var zero T
				return zero, false, nil
			}
			v := items[pos]
			pos++
			return v, true, nil
		})
	}
}

// FromSeq returns a sequence that runs seq once per cursor.
//
// Each cursor drives seq through iter.Pull. The pull is stopped when seq is
// exhausted, or by a runtime cleanup once the cursor is no longer reachable.
// If seq panics, the panic reaches the caller of Next and every later Next
// fails with ErrSourcePanicked.
func FromSeq[T any](seq iter.Seq[T]) Producer[T] {
	return func() Cursor[T] {
		next, stop := iter.Pull(seq)
		c := &pullCursor[T]{next: next, stop: stop}
		runtime.AddCleanup(c, func(stop func()) { stop() }, stop)
		return c
	}
}

// FromSeq2 is FromSeq for sources that report failures in-band.
// A non-nil error is returned from Next; the following Next resumes with the
// element after the failed one.
func FromSeq2[T any](seq iter.Seq2[T, error]) Producer[T] {
	return func() Cursor[T] {
		next, stop := iter.Pull2(seq)
		c := &pullCursor2[T]{next: next, stop: stop}
		runtime.AddCleanup(c, func(stop func()) { stop() }, stop)
		return c
	}
}

type pullCursor[T any] struct {
	next   func() (T, bool)
	stop   func()
	done   bool
	broken bool
}

func (c *pullCursor[T]) Next() (T, bool, error) {
	var zero T
	if c.broken {
		return zero, false, errBroken()
	}
	if c.done {
		return zero, false, nil
	}
	// stays set if next panics: a dead coroutine reports !ok, not the panic
	c.broken = true
	v, ok := c.next()
	c.broken = false
	if !ok {
		c.done = true
		c.stop()
	}
	return v, ok, nil
}

type pullCursor2[T any] struct {
	next   func() (T, error, bool)
	stop   func()
	done   bool
	broken bool
}

func (c *pullCursor2[T]) Next() (T, bool, error) {
	var zero T
	if c.broken {
		return zero, false, errBroken()
	}
	if c.done {
		return zero, false, nil
	}
	c.broken = true
	v, err, ok := c.next()
	c.broken = false
	if !ok {
		c.done = true
		c.stop()
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func errBroken() error {
	return fmt.Errorf("%w: iterator cannot resume", ErrSourcePanicked)
}
