// Package ternary chooses, per iteration, between recomputing a sequence and
// reading its memoized copy.
package ternary

import (
	"github.com/on-the-ground/lazy_ive_go/internal/logging"
	"github.com/on-the-ground/lazy_ive_go/internal/logkeys"
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/sticky"
	"github.com/on-the-ground/lazy_ive_go/shared/helper"
	"go.uber.org/zap"
)

// Mode names the strategy a Ternary routed to.
type Mode string

const (
	// ModeLive re-runs the source on every iteration.
	ModeLive Mode = "live"

	// ModeCached serves iterations from a Sticky.
	ModeCached Mode = "cached"
)

// Strategy is a sealed sum type: Recompute or Memoized.
type Strategy[T any] interface {
	lazy.Sequence[T]
	Mode() Mode
	strategy()
}

var (
	_ Strategy[any] = Recompute[any]{}
	_ Strategy[any] = Memoized[any]{}
)

// Recompute opens a brand-new traversal of Source for every cursor.
type Recompute[T any] struct {
	Source lazy.Sequence[T]
}

func (r Recompute[T]) Cursor() lazy.Cursor[T] { return r.Source.Cursor() }
func (Recompute[T]) Mode() Mode               { return ModeLive }
func (Recompute[T]) strategy()                {}

// Memoized delegates to a Sticky.
type Memoized[T any] struct {
	Sticky *sticky.Sticky[T]
}

func (m Memoized[T]) Cursor() lazy.Cursor[T] { return m.Sticky.Cursor() }
func (Memoized[T]) Mode() Mode               { return ModeCached }
func (Memoized[T]) strategy()                {}

// Ternary routes each Cursor call wholly to one of two equivalent strategies.
//
// The condition is evaluated once per Cursor call, never at construction, so
// it may follow mutable configuration. A cursor never changes strategy once
// opened.
type Ternary[T any] struct {
	live   Recompute[T]
	cached Memoized[T]
	isLive func() bool
	logger *zap.Logger
}

var _ lazy.Sequence[any] = (*Ternary[any])(nil)

// New builds a Ternary choosing live when isLive reports true.
func New[T any](
	isLive func() bool,
	live Recompute[T],
	cached Memoized[T],
	config ...lazy.Config,
) *Ternary[T] {
	cfg := helper.OptionalOne(config, lazy.DefaultConfig())
	return &Ternary[T]{
		live:   live,
		cached: cached,
		isLive: isLive,
		logger: logging.OrNop(cfg.Logger),
	}
}

// Dynamic builds both strategies over src and asks isLive on every iteration.
func Dynamic[T any](isLive func() bool, src lazy.Sequence[T], config ...lazy.Config) *Ternary[T] {
	return New(
		isLive,
		Recompute[T]{Source: src},
		Memoized[T]{Sticky: sticky.New(src, config...)},
		config...,
	)
}

// Of builds a Ternary with a fixed choice.
func Of[T any](live bool, src lazy.Sequence[T], config ...lazy.Config) *Ternary[T] {
	return Dynamic(func() bool { return live }, src, config...)
}

// Select evaluates the condition and returns the chosen strategy.
func (t *Ternary[T]) Select() Strategy[T] {
	if t.isLive() {
		return t.live
	}
	return t.cached
}

// Cursor opens a cursor on the strategy selected for this call.
func (t *Ternary[T]) Cursor() lazy.Cursor[T] {
	s := t.Select()
	t.logger.Debug("ternary selected strategy", zap.String(logkeys.TernaryMode, string(s.Mode())))
	return s.Cursor()
}

// Memo exposes the memoized strategy's Sticky.
func (t *Ternary[T]) Memo() *sticky.Sticky[T] {
	return t.cached.Sticky
}
