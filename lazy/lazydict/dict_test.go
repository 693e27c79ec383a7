package lazydict_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/lazydict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func counted(calls *atomic.Int32, v string) func() (string, error) {
	return func() (string, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestDict_RestrictiveScenario(t *testing.T) {
	var aCalls, bCalls atomic.Int32
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Func("a", counted(&aCalls, "A")),
		lazydict.Lazy("b", counted(&bCalls, "B")),
	)

	assert.Equal(t, []string{"a", "b"}, d.Keys())
	assert.True(t, d.IsLazy())

	_, err := d.Values()
	assert.ErrorIs(t, err, lazy.ErrWouldForceLazy)
	assert.Zero(t, aCalls.Load())
	assert.Zero(t, bCalls.Load())

	v, err := d.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "B", v)
	assert.EqualValues(t, 1, bCalls.Load())
	assert.Zero(t, aCalls.Load())
	assert.True(t, d.Resolved("b"))
	assert.False(t, d.Resolved("a"))
}

func TestDict_RestrictiveRejectsEveryBulkRead(t *testing.T) {
	var calls atomic.Int32
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Of("x", "X"),
		lazydict.Lazy("y", counted(&calls, "Y")),
	)

	err := d.Range(func(string, string) bool { return true })
	assert.ErrorIs(t, err, lazy.ErrWouldForceLazy)

	dst := map[string]string{}
	assert.ErrorIs(t, d.CopyTo(dst), lazy.ErrWouldForceLazy)
	assert.Empty(t, dst)

	m, err := d.ToMap()
	assert.ErrorIs(t, err, lazy.ErrWouldForceLazy)
	assert.Nil(t, m)

	assert.Zero(t, calls.Load())
}

func TestDict_PermissiveComputesAll(t *testing.T) {
	var aCalls, bCalls atomic.Int32
	d := lazydict.New(lazydict.NewConfig(lazydict.Permissive, nil),
		lazydict.Func("a", counted(&aCalls, "A")),
		lazydict.Lazy("b", counted(&bCalls, "B")),
	)

	values, err := d.Values()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, values)

	m, err := d.ToMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "A", "b": "B"}, m)

	var seen []string
	err = d.Range(func(k, v string) bool {
		seen = append(seen, k+"="+v)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a=A", "b=B"}, seen)

	assert.EqualValues(t, 1, aCalls.Load())
	assert.EqualValues(t, 1, bCalls.Load())
}

func TestDict_RestrictiveWithoutLazyEntriesAllowsBulk(t *testing.T) {
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Of(1, "one"),
		lazydict.Func(2, func() (string, error) { return "two", nil }),
	)
	assert.False(t, d.IsLazy())

	values, err := d.Values()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, values)
}

func TestDict_Empty(t *testing.T) {
	d := lazydict.New[string, int](lazydict.DefaultConfig())

	assert.False(t, d.IsLazy())
	assert.Zero(t, d.Len())
	assert.Empty(t, d.Keys())

	values, err := d.Values()
	require.NoError(t, err)
	assert.Empty(t, values)

	m, err := d.ToMap()
	require.NoError(t, err)
	assert.Empty(t, m)

	assert.NoError(t, d.Range(func(string, int) bool { return true }))
}

func TestDict_GetIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Lazy("k", func() (*time.Time, error) {
			calls.Add(1)
			now := time.Now()
			return &now, nil
		}),
	)

	a, err := d.Get("k")
	require.NoError(t, err)
	b, err := d.Get("k")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDict_MissingKey(t *testing.T) {
	d := lazydict.New(lazydict.DefaultConfig(), lazydict.Of("a", 1))

	_, err := d.Get("nope")
	assert.ErrorIs(t, err, lazy.ErrMissingKey)

	v, ok, err := d.TryGet("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)

	assert.False(t, d.ContainsKey("nope"))
	assert.False(t, d.Resolved("nope"))
}

func TestDict_TryGetComputesOnlyThatKey(t *testing.T) {
	var aCalls, bCalls atomic.Int32
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Lazy("a", counted(&aCalls, "A")),
		lazydict.Lazy("b", counted(&bCalls, "B")),
	)

	assert.True(t, d.ContainsKey("a"))
	assert.Zero(t, aCalls.Load())

	v, ok, err := d.TryGet("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A", v)
	assert.EqualValues(t, 1, aCalls.Load())
	assert.Zero(t, bCalls.Load())
}

func TestDict_ReadOnly(t *testing.T) {
	d := lazydict.New(lazydict.DefaultConfig(), lazydict.Of("a", 1))

	assert.ErrorIs(t, d.Add("b", 2), lazy.ErrReadOnly)
	assert.ErrorIs(t, d.Set("a", 5), lazy.ErrReadOnly)
	assert.ErrorIs(t, d.Remove("a"), lazy.ErrReadOnly)
	assert.ErrorIs(t, d.Clear(), lazy.ErrReadOnly)

	assert.Equal(t, []string{"a"}, d.Keys())
	v, err := d.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, d.ContainsKey("b"))
}

func TestDict_DuplicateKeyLastWins(t *testing.T) {
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Of("a", 1),
		lazydict.Of("b", 2),
		lazydict.Of("a", 3),
	)

	assert.Equal(t, []string{"a", "b"}, d.Keys())
	assert.Equal(t, 2, d.Len())
	v, err := d.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestDict_FailureIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Lazy("k", func() (int, error) {
			calls++
			if calls == 1 {
				return 0, boom
			}
			return 7, nil
		}),
	)

	_, err := d.Get("k")
	assert.ErrorIs(t, err, boom)
	assert.False(t, d.Resolved("k"))

	v, err := d.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestDict_BulkCombinesFailures(t *testing.T) {
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	d := lazydict.New(lazydict.NewConfig(lazydict.Permissive, nil),
		lazydict.Func("a", func() (int, error) { return 0, errA }),
		lazydict.Of("b", 2),
		lazydict.Func("c", func() (int, error) { return 0, errC }),
	)

	_, err := d.Values()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)

	dst := map[string]int{}
	assert.Error(t, d.CopyTo(dst))
	assert.Empty(t, dst)

	err = d.Range(func(string, int) bool { return true })
	assert.ErrorIs(t, err, errA)
}

func TestDict_RangeStopsEarly(t *testing.T) {
	var calls atomic.Int32
	d := lazydict.New(lazydict.NewConfig(lazydict.Permissive, nil),
		lazydict.Func("a", counted(&calls, "A")),
		lazydict.Func("b", counted(&calls, "B")),
	)

	err := d.Range(func(string, string) bool { return false })
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestDict_ConcurrentGetsComputeOncePerKey(t *testing.T) {
	const keys = 16
	calls := make([]atomic.Int32, keys)
	entries := make([]lazydict.Entry[int, int], keys)
	for i := range keys {
		entries[i] = lazydict.Lazy(i, func() (int, error) {
			calls[i].Add(1)
			return i * i, nil
		})
	}
	d := lazydict.New(lazydict.DefaultConfig(), entries...)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range keys {
				k := (i + g) % keys
				v, err := d.Get(k)
				assert.NoError(t, err)
				assert.Equal(t, k*k, v)
			}
		}(g)
	}
	wg.Wait()

	for i := range keys {
		assert.EqualValues(t, 1, calls[i].Load(), "key %d", i)
	}
}

func TestDict_SlowKeyDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Lazy("slow", func() (string, error) {
			close(started)
			<-release
			return "slow", nil
		}),
		lazydict.Lazy("fast", func() (string, error) { return "fast", nil }),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := d.Get("slow")
		assert.NoError(t, err)
		assert.Equal(t, "slow", v)
	}()
	<-started

	v, err := d.Get("fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", v)

	close(release)
	<-done
}

func TestDict_LogsRefusedBulkRead(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := lazydict.New(lazydict.NewConfig(lazydict.Restrictive, zap.New(core)),
		lazydict.Lazy("a", func() (int, error) { return 1, nil }),
	)

	_, err := d.Values()
	require.ErrorIs(t, err, lazy.ErrWouldForceLazy)

	entries := logs.FilterMessage("lazy dict refused bulk read").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "values", fields["lazy.dict.operation"])
	assert.EqualValues(t, 1, fields["lazy.dict.lazy_keys"])
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := lazydict.NewConfig("", nil)
	assert.Equal(t, lazydict.Restrictive, cfg.Mode)
	assert.NotNil(t, cfg.Logger)

	d := lazydict.New[string, int](lazydict.Config{})
	assert.Equal(t, lazydict.Restrictive, d.Mode())
}

func TestFromSeq(t *testing.T) {
	d := lazydict.FromSeq(lazydict.DefaultConfig(), func(yield func(lazydict.Entry[string, int]) bool) {
		for i, k := range []string{"x", "y", "z"} {
			if !yield(lazydict.Of(k, i)) {
				return
			}
		}
	})

	assert.Equal(t, []string{"x", "y", "z"}, d.Keys())
	m, err := d.ToMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"x": 0, "y": 1, "z": 2}, m)
}

func TestDict_WarmComputesNamedKeysOnly(t *testing.T) {
	var aCalls, bCalls, cCalls atomic.Int32
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Lazy("a", counted(&aCalls, "A")),
		lazydict.Lazy("b", counted(&bCalls, "B")),
		lazydict.Lazy("c", counted(&cCalls, "C")),
	)

	require.NoError(t, d.Warm(context.Background(), 1, "a", "b"))
	assert.True(t, d.Resolved("a"))
	assert.True(t, d.Resolved("b"))
	assert.False(t, d.Resolved("c"))

	_, err := d.Get("a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, aCalls.Load())
	assert.EqualValues(t, 1, bCalls.Load())
	assert.Zero(t, cCalls.Load())
}

func TestDict_WarmMissingKeyComputesNothing(t *testing.T) {
	var calls atomic.Int32
	d := lazydict.New(lazydict.DefaultConfig(), lazydict.Lazy("a", counted(&calls, "A")))

	err := d.Warm(context.Background(), 0, "a", "zzz")
	assert.ErrorIs(t, err, lazy.ErrMissingKey)
	assert.Zero(t, calls.Load())
}

func TestDict_WarmReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	d := lazydict.New(lazydict.DefaultConfig(),
		lazydict.Lazy("bad", func() (int, error) { return 0, boom }),
		lazydict.Of("good", 1),
	)

	err := d.Warm(context.Background(), 0, "good", "bad")
	assert.ErrorIs(t, err, boom)
	assert.False(t, d.Resolved("bad"))
}
