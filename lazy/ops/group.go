package ops

import (
	"github.com/on-the-ground/lazy_ive_go/lazy"
	"github.com/on-the-ground/lazy_ive_go/lazy/lazydict"
)

// Grouped splits src into groups keyed by keyFn.
//
// Keys are known only after a full pass, so src is drained here, once. Group
// values are plain computed entries, so bulk reads on the result are allowed
// in either mode.
func Grouped[T any, K comparable](
	src lazy.Sequence[T],
	keyFn func(T) K,
	cfg lazydict.Config,
) (*lazydict.Dict[K, []T], error) {
	var order []K
	groups := make(map[K][]T)
	for v, err := range lazy.All(src) {
		if err != nil {
			return nil, err
		}
		k := keyFn(v)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], v)
	}

	entries := make([]lazydict.Entry[K, []T], 0, len(order))
	for _, k := range order {
		members := groups[k]
		entries = append(entries, lazydict.Func(k, func() ([]T, error) {
			return members, nil
		}))
	}
	return lazydict.New(cfg, entries...), nil
}
