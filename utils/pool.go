package utils

import "sync"

// Pool is a reusable scratch-buffer cache for slices of a single element
// type. Buffers are bucketed by capacity so that repeated evaluations at
// the same basis degree hit the same bucket and never reallocate.
//
// Pool is safe for concurrent use; each Get returns a slice owned
// exclusively by the caller until the matching Put. Callers must not
// retain a reference past Put.
type Pool[T any] struct {
	pools sync.Map // capacity bucket -> *sync.Pool
}

// bucket rounds n up to the next power of two so that nearby sizes share
// storage.
func bucket(n int) int {
	b := 1
	for b < n {
		b <<= 1
	}
	return b
}

// Get returns a zero-valued slice of length n. The slice may come from a
// previous Put; its contents are cleared before return.
func (p *Pool[T]) Get(n int) []T {
	if n == 0 {
		return nil
	}
	b := bucket(n)
	v, ok := p.pools.Load(b)
	if !ok {
		v, _ = p.pools.LoadOrStore(b, &sync.Pool{})
	}
	sp := v.(*sync.Pool)
	if got := sp.Get(); got != nil {
		s := got.([]T)[:n]
		clear(s)
		return s
	}
	return make([]T, n, b)
}

// Put returns a slice obtained from Get to the pool. Slices not allocated
// at a power-of-two capacity are dropped rather than poisoning a bucket.
func (p *Pool[T]) Put(s []T) {
	c := cap(s)
	if c == 0 || c != bucket(c) {
		return
	}
	v, ok := p.pools.Load(c)
	if !ok {
		v, _ = p.pools.LoadOrStore(c, &sync.Pool{})
	}
	v.(*sync.Pool).Put(s[:c])
}
