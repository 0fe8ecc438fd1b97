package pubsub

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoalescer_FirstRaiseNotifies(t *testing.T) {
	var fired int
	c := NewCoalescer(func() { fired++ })

	require.True(t, c.Raise())
	require.Equal(t, 1, fired)
	require.True(t, c.Pending())
}

func TestCoalescer_BurstCoalescesIntoOneNotification(t *testing.T) {
	var fired int
	c := NewCoalescer(func() { fired++ })

	require.True(t, c.Raise())
	require.False(t, c.Raise())
	require.False(t, c.Raise())
	require.Equal(t, 1, fired)

	require.True(t, c.Drain())
	require.False(t, c.Pending())

	require.True(t, c.Raise())
	require.Equal(t, 2, fired)
}

func TestCoalescer_DrainWithoutRaise(t *testing.T) {
	c := NewCoalescer(nil)
	require.False(t, c.Drain())
}

// A concurrent producer burst must produce exactly one notification per
// drain cycle regardless of interleaving.
func TestCoalescer_ConcurrentProducers(t *testing.T) {
	var fired atomic.Int64
	c := NewCoalescer(func() { fired.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Raise()
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), fired.Load())
	require.True(t, c.Drain())
}
