// Package lazy provides the sequence abstraction shared by the lazy_ive_go
// packages.
//
// A [Sequence] hands out independent pull-style [Cursor]s. A [Producer] is the
// simplest Sequence: a function that opens a fresh cursor over some possibly
// expensive or side-effecting source every time it is called.
//
// The interesting behavior lives in the sub-packages:
//
//   - sticky: a memoizing Sequence that pulls each element from its producer at
//     most once, no matter how many cursors (or goroutines) consume it.
//   - ternary: a per-iteration switch between a live traversal and a sticky one.
//   - lazydict: a read-only map with eager keys and lazily computed, memoized
//     values that refuses to realize every value behind the caller's back.
//   - ops: map/filter/skip/take/join/sort/distinct built on ternary.
//
// # Errors
//
// Exhaustion, illegal mutation and unsafe bulk realization are reported with
// the sentinel errors declared here and can be matched with errors.Is.
// Failures raised by a producer are returned unchanged and never cached.
//
// Example:
//
//	calls := 0
//	src := lazy.FromSeq(func(yield func(int) bool) {
//	    for i := range 3 {
//	        calls++
//	        if !yield(i) {
//	            return
//	        }
//	    }
//	})
//	s := sticky.New(src)
//	a, _ := lazy.Collect[int](s)
//	b, _ := lazy.Collect[int](s) // served from the buffer, calls == 3
package lazy
