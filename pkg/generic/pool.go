package generic

import "sync"

// SlicePool recycles scratch slices that are rebuilt on every tick.
type SlicePool[T any] struct {
	pool sync.Pool
}

func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{}
}

// Get returns a zeroed slice of length n.
func (p *SlicePool[T]) Get(n int) []T {
	if v, ok := p.pool.Get().(*[]T); ok && cap(*v) >= n {
		s := (*v)[:n]
		clear(s)
		return s
	}
	return make([]T, n)
}

// Put hands s back for reuse. The caller must not touch s afterwards.
func (p *SlicePool[T]) Put(s []T) {
	if cap(s) == 0 {
		return
	}
	s = s[:0]
	p.pool.Put(&s)
}
