package panel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/omochice/chat-panel/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsTasksInPostOrder(t *testing.T) {
	loop := panel.NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var got []int
	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		require.True(t, loop.Post(func() {
			got = append(got, i)
			wg.Done()
		}))
	}
	wg.Wait()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_PostAfterStop(t *testing.T) {
	loop := panel.NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	ran := false
	assert.False(t, loop.Post(func() { ran = true }))
	assert.False(t, ran)
}

func TestLoop_BlockedPostReleasedOnStop(t *testing.T) {
	loop := panel.NewLoop(1)
	require.True(t, loop.Post(func() {}))

	result := make(chan bool, 1)
	go func() { result <- loop.Post(func() {}) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx)

	select {
	case <-result:
	case <-time.After(time.Second):
		t.Fatal("Post did not return after stop")
	}
}
