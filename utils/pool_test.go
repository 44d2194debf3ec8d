package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetLengthAndZeroing(t *testing.T) {
	var p Pool[float64]
	for _, n := range []int{1, 3, 16, 100} {
		s := p.Get(n)
		require.Len(t, s, n)
		for i := range s {
			s[i] = 42
		}
		p.Put(s)

		s2 := p.Get(n)
		require.Len(t, s2, n)
		for i := range s2 {
			assert.Equalf(t, 0.0, s2[i], "reused buffer must be cleared at %d", i)
		}
		p.Put(s2)
	}
}

func TestPoolZeroLength(t *testing.T) {
	var p Pool[complex128]
	assert.Nil(t, p.Get(0))
	p.Put(nil) // must not panic
}

func TestPoolBucketSharing(t *testing.T) {
	// Sizes rounding to the same power of two share capacity.
	var p Pool[int]
	s := p.Get(5)
	assert.Equal(t, 8, cap(s))
	p.Put(s)
	s2 := p.Get(7)
	assert.Equal(t, 8, cap(s2))
}

func TestPoolConcurrentUse(t *testing.T) {
	var p Pool[float64]
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s := p.Get(64)
				for j := range s {
					s[j] = float64(j)
				}
				p.Put(s)
			}
		}()
	}
	wg.Wait()
}
