// Package lazydict provides a read-only map whose keys are known up front and
// whose values are computed on first access and then remembered.
//
// Reading one key computes only that key. Reading everything at once (Values,
// Range, CopyTo, ToMap) would compute every value, so a Dict built in
// Restrictive mode refuses those operations while it holds any entry marked
// Lazy, and fails with lazy.ErrWouldForceLazy instead.
//
// Every write fails with lazy.ErrReadOnly.
package lazydict

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/on-the-ground/lazy_ive_go/internal/logging"
	"github.com/on-the-ground/lazy_ive_go/internal/logkeys"
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/sticky"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mode decides whether bulk reads may force lazy values.
type Mode string

const (
	// Restrictive rejects bulk reads while any entry is lazy.
	Restrictive Mode = "restrictive"

	// Permissive lets bulk reads compute every value.
	Permissive Mode = "permissive"
)

// Config controls a Dict.
type Config struct {
	Mode   Mode        // default: Restrictive
	Logger *zap.Logger // default: no-op
}

// NewConfig returns a Config with defaults applied.
func NewConfig(mode Mode, logger *zap.Logger) Config {
	if mode != Permissive {
		mode = Restrictive
	}
	return Config{
		Mode:   mode,
		Logger: logging.OrNop(logger),
	}
}

// DefaultConfig is a restrictive Config without logging.
func DefaultConfig() Config {
	return NewConfig(Restrictive, nil)
}

type slot[V any] struct {
	value *sticky.Value[V]
	lazy  bool
}

// Dict is a read-only map with eager keys and lazily computed values.
// It is safe for concurrent use. Each key memoizes independently, so a slow
// computation for one key does not hold up reads of another.
type Dict[K comparable, V any] struct {
	id     string
	mode   Mode
	logger *zap.Logger

	keys  []K
	slots map[K]slot[V]

	lazyKeys func() int
}

// New indexes entries. A repeated key replaces the earlier entry but keeps
// its position in Keys.
func New[K comparable, V any](cfg Config, entries ...Entry[K, V]) *Dict[K, V] {
	return FromSeq(cfg, slices.Values(entries))
}

// FromSeq indexes entries from a sequence. See New.
func FromSeq[K comparable, V any](cfg Config, entries iter.Seq[Entry[K, V]]) *Dict[K, V] {
	cfg = NewConfig(cfg.Mode, cfg.Logger)
	d := &Dict[K, V]{
		id:     uuid.New().String(),
		mode:   cfg.Mode,
		logger: cfg.Logger,
		slots:  make(map[K]slot[V]),
	}

	valueConfig := lazy.NewConfig(cfg.Logger)
	for e := range entries {
		if _, seen := d.slots[e.Key]; !seen {
			d.keys = append(d.keys, e.Key)
		}
		d.slots[e.Key] = slot[V]{value: e.cell(valueConfig), lazy: e.IsLazy()}
	}

	d.lazyKeys = sync.OnceValue(func() int {
		n := 0
		for _, s := range d.slots {
			if s.lazy {
				n++
			}
		}
		return n
	})

	d.logger.Debug("lazy dict indexed",
		zap.String(logkeys.DictId, d.id),
		zap.Int(logkeys.DictKeys, len(d.keys)),
	)
	return d
}

// Get returns the value for key, computing it on first access.
func (d *Dict[K, V]) Get(key K) (V, error) {
	s, ok := d.slots[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", lazy.ErrMissingKey, key)
	}
	return s.value.Get()
}

// TryGet is Get that reports an absent key with ok == false instead of an
// error. Only key's own value is computed.
func (d *Dict[K, V]) TryGet(key K) (v V, ok bool, err error) {
	s, ok := d.slots[key]
	if !ok {
		return v, false, nil
	}
	v, err = s.value.Get()
	return v, err == nil, err
}

// ContainsKey reports whether key is present without computing anything.
func (d *Dict[K, V]) ContainsKey(key K) bool {
	_, ok := d.slots[key]
	return ok
}

// Resolved reports whether key's value has already been computed.
func (d *Dict[K, V]) Resolved(key K) bool {
	s, ok := d.slots[key]
	return ok && s.value.Resolved()
}

// Keys returns the keys in insertion order. No value is computed.
func (d *Dict[K, V]) Keys() []K {
	return slices.Clone(d.keys)
}

// Len is the number of keys.
func (d *Dict[K, V]) Len() int {
	return len(d.keys)
}

// IsLazy reports whether any entry was built with Lazy.
func (d *Dict[K, V]) IsLazy() bool {
	return d.lazyKeys() > 0
}

// Mode is the bulk read policy d was built with.
func (d *Dict[K, V]) Mode() Mode {
	return d.mode
}

// Values computes and returns every value in key order.
// Failures of individual entries are combined into one error.
func (d *Dict[K, V]) Values() ([]V, error) {
	if err := d.guard("values"); err != nil {
		return nil, err
	}
	values, err := d.realize()
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Range calls fn for each entry in key order until fn returns false.
// It stops at the first entry that fails to compute and returns its error.
func (d *Dict[K, V]) Range(fn func(K, V) bool) error {
	if err := d.guard("range"); err != nil {
		return err
	}
	for _, k := range d.keys {
		v, err := d.slots[k].value.Get()
		if err != nil {
			return err
		}
		if !fn(k, v) {
			return nil
		}
	}
	return nil
}

// CopyTo computes every value and writes all entries into dst.
// dst is left untouched if any value fails.
func (d *Dict[K, V]) CopyTo(dst map[K]V) error {
	if err := d.guard("copy"); err != nil {
		return err
	}
	values, err := d.realize()
	if err != nil {
		return err
	}
	for i, k := range d.keys {
		dst[k] = values[i]
	}
	return nil
}

// ToMap computes every value into a fresh map.
func (d *Dict[K, V]) ToMap() (map[K]V, error) {
	m := make(map[K]V, len(d.keys))
	if err := d.CopyTo(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Warm computes the values of keys concurrently, at most limit at a time
// (limit <= 0 means no limit), and returns the first failure. Warm is not a
// bulk read: the caller names every key it forces, so the mode does not apply.
// Every key is checked before anything is computed.
func (d *Dict[K, V]) Warm(ctx context.Context, limit int, keys ...K) error {
	for _, k := range keys {
		if !d.ContainsKey(k) {
			return fmt.Errorf("%w: %v", lazy.ErrMissingKey, k)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, k := range keys {
		value := d.slots[k].value
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := value.Get(); err != nil {
				return fmt.Errorf("key %v: %w", k, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	d.logger.Debug("lazy dict warmed",
		zap.String(logkeys.DictId, d.id),
		zap.Int(logkeys.DictKeys, len(keys)),
	)
	return nil
}

// Add always fails: Dict is read-only.
func (d *Dict[K, V]) Add(key K, _ V) error {
	return fmt.Errorf("%w: cannot add key %v", lazy.ErrReadOnly, key)
}

// Set always fails: Dict is read-only.
func (d *Dict[K, V]) Set(key K, _ V) error {
	return fmt.Errorf("%w: cannot set key %v", lazy.ErrReadOnly, key)
}

// Remove always fails: Dict is read-only.
func (d *Dict[K, V]) Remove(key K) error {
	return fmt.Errorf("%w: cannot remove key %v", lazy.ErrReadOnly, key)
}

// Clear always fails: Dict is read-only.
func (d *Dict[K, V]) Clear() error {
	return fmt.Errorf("%w: cannot clear", lazy.ErrReadOnly)
}

// guard rejects a bulk read that would force lazy values.
func (d *Dict[K, V]) guard(op string) error {
	if d.mode != Restrictive || !d.IsLazy() {
		return nil
	}
	d.logger.Warn("lazy dict refused bulk read",
		zap.String(logkeys.DictId, d.id),
		zap.String(logkeys.DictOperation, op),
		zap.Int(logkeys.DictLazyKeys, d.lazyKeys()),
	)
	return fmt.Errorf("%w: %s over %d lazy entries", lazy.ErrWouldForceLazy, op, d.lazyKeys())
}

// realize computes every value, carrying on past failures so that each
// failing key is reported.
func (d *Dict[K, V]) realize() ([]V, error) {
	values := make([]V, len(d.keys))
	var errs error
	for i, k := range d.keys {
		v, err := d.slots[k].value.Get()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("key %v: %w", k, err))
			continue
		}
		values[i] = v
	}
	return values, errs
}
