package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedVaries(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a := NewWithSeed(42)
	b := NewWithSeed(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(900), b.Intn(900))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSourceConcurrentUse(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := s.Float64()
				if v < 0 || v >= 1 {
					t.Errorf("Float64 out of range: %v", v)
				}
				if n := s.Intn(5); n < 0 || n >= 5 {
					t.Errorf("Intn out of range: %d", n)
				}
			}
		}()
	}
	wg.Wait()
}
