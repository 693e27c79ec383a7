package lazydict

import (
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/sticky"
)

// Entry pairs a key with the recipe for its value.
type Entry[K comparable, V any] struct {
	Key   K
	value func() (V, error)
	ready bool
	v     V
	lazy  bool
}

// Of is an entry whose value is already known.
func Of[K comparable, V any](key K, value V) Entry[K, V] {
	return Entry[K, V]{Key: key, ready: true, v: value}
}

// Func is an entry computed on first access. The computation is assumed to be
// cheap, so bulk reads may run it freely.
func Func[K comparable, V any](key K, fn func() (V, error)) Entry[K, V] {
	return Entry[K, V]{Key: key, value: fn}
}

// Lazy is an entry computed on first access whose computation is expensive or
// has side effects. A restrictive Dict refuses bulk reads while it holds one.
func Lazy[K comparable, V any](key K, fn func() (V, error)) Entry[K, V] {
	return Entry[K, V]{Key: key, value: fn, lazy: true}
}

// IsLazy reports whether e was built with Lazy.
func (e Entry[K, V]) IsLazy() bool {
	return e.lazy
}

// cell builds the per-key memo for e.
func (e Entry[K, V]) cell(cfg lazy.Config) *sticky.Value[V] {
	if e.ready || e.value == nil {
		return sticky.Ready(e.v)
	}
	return sticky.NewValue(e.value, cfg)
}
