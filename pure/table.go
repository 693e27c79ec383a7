package pure

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/sticky"
	"github.com/on-the-ground/lazy_ive_go/shared/helper"
)

// DefaultShards is used when a table is built with a non-positive shard count.
const DefaultShards = 16

// Table memoizes fn per key. Each key gets its own sticky.Value, so a slow
// computation only blocks callers asking for the same key. Entries are never
// dropped.
type Table[K comparable, V any] struct {
	fn     func(K) (V, error)
	shards []shard[K, V]
	config lazy.Config
}

type shard[K comparable, V any] struct {
	mu    sync.Mutex
	cells map[K]*sticky.Value[V]
}

// NewTable builds a table over fn with numShards lock shards.
func NewTable[K comparable, V any](fn func(K) (V, error), numShards int, config ...lazy.Config) *Table[K, V] {
	if numShards <= 0 {
		numShards = DefaultShards
	}
	cfg := helper.OptionalOne(config, lazy.DefaultConfig())
	shards := make([]shard[K, V], numShards)
	for i := range shards {
		shards[i].cells = make(map[K]*sticky.Value[V])
	}
	return &Table[K, V]{fn: fn, shards: shards, config: cfg}
}

// Get returns fn(key), computing it at most once on success.
func (t *Table[K, V]) Get(key K) (V, error) {
	return t.cell(key).Get()
}

// Len is the number of keys that have been asked for.
func (t *Table[K, V]) Len() int {
	n := 0
	for i := range t.shards {
		s := &t.shards[i]
		s.mu.Lock()
		n += len(s.cells)
		s.mu.Unlock()
	}
	return n
}

func (t *Table[K, V]) cell(key K) *sticky.Value[V] {
	s := &t.shards[shardIndex(tableKey(key), len(t.shards))]
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cells[key]
	if !ok {
		c = sticky.NewValue(func() (V, error) { return t.fn(key) }, t.config)
		s.cells[key] = c
	}
	return c
}

func tableKey(k any) string {
	if stringer, ok := k.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%v", k)
}

func shardIndex(key string, numShards int) int {
	switch numShards {
	case 0:
		panic("number of shards cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(key) % uint64(numShards))
	}
}
