package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsJobsInOrder(t *testing.T) {
	pool := NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		require.True(t, pool.Enqueue(JobFunc(func(ctx context.Context) error {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		})))
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestPool_EnqueueFullQueue(t *testing.T) {
	pool := NewPool(1, 1)
	// not started: nothing drains the queue
	assert.True(t, pool.Enqueue(JobFunc(func(context.Context) error { return nil })))
	assert.False(t, pool.Enqueue(JobFunc(func(context.Context) error { return nil })))
	pool.Stop()
}

func TestPool_StopCancelsRunningJob(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()

	started := make(chan struct{})
	var cancelled atomic.Bool
	require.True(t, pool.Enqueue(JobFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})))

	<-started
	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	assert.True(t, cancelled.Load())
	assert.False(t, pool.Enqueue(JobFunc(func(context.Context) error { return nil })))
}
