package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRespectsWorkerLimit(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 2})
	var inFlight, peak int32

	items := []int{1, 2, 3, 4, 5, 6}
	errs := Run(context.Background(), pool, items, func(ctx context.Context, _ int, _ int) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})

	require.Len(t, errs, len(items))
	assert.Equal(t, 0, Failed(errs))
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunKeepsErrorPositions(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 3})
	boom := errors.New("boom")

	errs := Run(context.Background(), pool, []string{"a", "b", "c"}, func(_ context.Context, i int, item string) error {
		if item == "b" {
			return boom
		}
		return nil
	})

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
	assert.Equal(t, 1, Failed(errs))
}

func TestRunCancelledContext(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	errs := Run(ctx, pool, []int{1, 2}, func(context.Context, int, int) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	assert.Equal(t, 2, Failed(errs))
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}
