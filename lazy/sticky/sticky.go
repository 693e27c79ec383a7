// Package sticky memoizes sequences so that every element is produced at most once.
package sticky

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/lazy_ive_go/internal/logging"
	"github.com/on-the-ground/lazy_ive_go/internal/logkeys"
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/shared/helper"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

var _ lazy.Sequence[any] = (*Sticky[any])(nil)

// Sticky is a sequence that remembers everything its source produced.
//
// The first cursor to reach position i pulls the element from the source and
// records it; every cursor reaching i afterwards reads the record. The source
// is opened at most once and each of its elements is produced at most once,
// however many cursors run and from however many goroutines.
//
// A source failure is handed to the cursor that hit it and is not recorded,
// so the next attempt at that position asks the source again.
type Sticky[T any] struct {
	id     string
	logger *zap.Logger

	// items is republished after every append. Slots below the published
	// length never change.
	items atomic.Pointer[[]T]
	// ended flips once, after the final publication of items.
	ended atomic.Bool

	mu       sync.Mutex
	src      lazy.Sequence[T]
	cursor   lazy.Cursor[T]
	failures int
	firstAt  time.Time
	lastAt   time.Time
}

// New wraps src. src is not touched until a cursor needs its first element.
//
// Accepts zero or one config; panics on more.
func New[T any](src lazy.Sequence[T], config ...lazy.Config) *Sticky[T] {
	cfg := helper.OptionalOne(config, lazy.DefaultConfig())
	s := &Sticky[T]{
		id:     uuid.New().String(),
		logger: logging.OrNop(cfg.Logger),
		src:    src,
	}
	s.items.Store(&[]T{})
	return s
}

// Id identifies s in log entries.
func (s *Sticky[T]) Id() string {
	return s.id
}

// Cursor returns a fresh cursor at position 0.
func (s *Sticky[T]) Cursor() lazy.Cursor[T] {
	return &cursor[T]{sticky: s}
}

// All ranges over a fresh cursor. See lazy.All.
func (s *Sticky[T]) All() iter.Seq2[T, error] {
	return lazy.All[T](s)
}

// ItemAt returns the element at position i, producing up to it if needed.
func (s *Sticky[T]) ItemAt(i int) (T, error) {
	v, ok, err := s.at(i)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("%w: index %d, length %d", lazy.ErrNoSuchElement, i, s.Buffered())
	}
	return v, nil
}

// Ended reports whether the source has been exhausted.
func (s *Sticky[T]) Ended() bool {
	return s.ended.Load()
}

// Buffered is the number of elements recorded so far.
func (s *Sticky[T]) Buffered() int {
	return len(*s.items.Load())
}

// at serves position i from the record, or advances the source up to i.
func (s *Sticky[T]) at(i int) (T, bool, error) {
	var zero T
	if i < 0 {
		return zero, false, nil
	}
	if items := *s.items.Load(); i < len(items) {
		return items[i], true, nil
	}
	if s.ended.Load() {
		// ended is stored after the last publication, so this load is complete.
		if items := *s.items.Load(); i < len(items) {
			return items[i], true, nil
		}
		return zero, false, nil
	}

	for {
		v, ok, settled, err := s.step(i)
		if settled || err != nil {
			return v, ok, err
		}
	}
}

// step makes one attempt at position i under mu: it serves i if it is
// recorded, and otherwise pulls a single element. settled is false while i is
// still ahead of the frontier. mu is never held across more than one pull.
func (s *Sticky[T]) step(i int) (v T, ok, settled bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := *s.items.Load()
	if i < len(items) {
		return items[i], true, true, nil
	}
	if s.ended.Load() {
		return v, false, true, nil
	}
	if err := s.advance(items); err != nil {
		return v, false, true, err
	}
	return v, false, false, nil
}

// advance pulls one element from the source. Callers hold mu.
func (s *Sticky[T]) advance(items []T) error {
	if s.cursor == nil {
		s.cursor = s.src.Cursor()
		s.logger.Debug("sticky source opened", zap.String(logkeys.StickyId, s.id))
	}

	v, ok, err := s.cursor.Next()
	if err != nil {
		s.failures++
		s.logger.Warn("sticky source failed",
			zap.String(logkeys.StickyId, s.id),
			zap.Int(logkeys.StickyIndex, len(items)),
			zap.Error(err),
		)
		return err
	}
	if !ok {
		s.ended.Store(true)
		s.logger.Debug("sticky source exhausted",
			zap.String(logkeys.StickyId, s.id),
			zap.Int(logkeys.StickyProduced, len(items)),
		)
		return nil
	}

	now := time.Now()
	if len(items) == 0 {
		s.firstAt = now
	}
	s.lastAt = now

	next := append(items, v)
	s.items.Store(&next)
	return nil
}

// Stats is a snapshot of a Sticky's progress.
type Stats struct {
	Produced int
	Failures int
	Ended    bool
	// Span runs from the first to the latest produced element.
	// Zero until something has been produced.
	Span timespan.TimeSpan
}

// Stats returns a snapshot of s.
func (s *Sticky[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Produced: len(*s.items.Load()),
		Failures: s.failures,
		Ended:    s.ended.Load(),
	}
	if st.Produced > 0 {
		st.Span = timespan.BetweenTimes(s.firstAt, s.lastAt)
	}
	return st
}

type cursor[T any] struct {
	sticky *Sticky[T]
	pos    int
}

func (c *cursor[T]) Next() (T, bool, error) {
	v, ok, err := c.sticky.at(c.pos)
	if ok {
		c.pos++
	}
	return v, ok, err
}
