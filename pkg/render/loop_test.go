package render

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunPendingRunsPostedTasks(t *testing.T) {
	l := NewLoop(nil)
	var order []int

	l.Post(func() {
		order = append(order, 1)
		l.Post(func() { order = append(order, 3) })
	})
	l.Post(func() { order = append(order, 2) })

	assert.Equal(t, 2, l.Pending())
	assert.Equal(t, 3, l.RunPending())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, l.Pending())
}

func TestLoopRecoversPanics(t *testing.T) {
	l := NewLoop(nil)
	ran := false

	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })

	assert.NotPanics(t, func() { l.RunPending() })
	assert.True(t, ran)
}

func TestLoopPostFromGoroutines(t *testing.T) {
	l := NewLoop(nil)
	const n = 50
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() { count++ })
		}()
	}
	wg.Wait()

	l.RunPending()
	assert.Equal(t, n, count)
}

func TestLoopRunStopsOnClose(t *testing.T) {
	l := NewLoop(nil)
	done := make(chan error, 1)

	go func() { done <- l.Run(context.Background()) }()

	ran := make(chan struct{})
	require.True(t, l.Post(func() { close(ran) }))
	<-ran

	l.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.False(t, l.Post(func() {}))
}

func TestLoopRunStopsOnContext(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestLoopSettleWaitsForInFlight(t *testing.T) {
	l := NewLoop(nil)
	settled := false

	l.begin()
	go func() {
		time.Sleep(10 * time.Millisecond)
		l.Post(func() {
			defer l.end()
			settled = true
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Settle(ctx))
	assert.True(t, settled)
	assert.Zero(t, l.InFlight())
}
