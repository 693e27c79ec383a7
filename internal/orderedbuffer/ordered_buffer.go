package orderedbuffer

import "sort"

type CompareFunc[T any] func(a, b T) int

// OrderedBuffer keeps inserted values sorted by compare.
// Equal values keep their insertion order. Not safe for concurrent use.
type OrderedBuffer[T any] struct {
	data    []T
	compare CompareFunc[T]
}

func NewOrderedBuffer[T any](sizeHint int, cmp CompareFunc[T]) *OrderedBuffer[T] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &OrderedBuffer[T]{
		data:    make([]T, 0, sizeHint),
		compare: cmp,
	}
}

func (b *OrderedBuffer[T]) Insert(val T) {
	// first position holding a strictly greater value
	idx := sort.Search(len(b.data), func(i int) bool {
		return b.compare(val, b.data[i]) < 0
	})

	var zero T
	b.data = append(b.data, zero)
	copy(b.data[idx+1:], b.data[idx:])
	b.data[idx] = val
}

func (b *OrderedBuffer[T]) Len() int {
	return len(b.data)
}

// Values returns the sorted contents. The slice is shared with the buffer.
func (b *OrderedBuffer[T]) Values() []T {
	return b.data
}
