package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweepStore struct {
	mu    sync.Mutex
	calls int
	count int64
	err   error
}

func (f *fakeSweepStore) MarkOverdue(context.Context, time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.count, f.err
}

func (f *fakeSweepStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweepOnce(t *testing.T) {
	t.Run("returns marked count", func(t *testing.T) {
		store := &fakeSweepStore{count: 3}
		s := New(store, time.Minute)

		n, err := s.SweepOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, 1, store.callCount())
	})

	t.Run("wraps store errors", func(t *testing.T) {
		store := &fakeSweepStore{err: errors.New("connection reset")}
		s := New(store, time.Minute)

		_, err := s.SweepOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to mark overdue scorecards")
	})
}

func TestRun(t *testing.T) {
	t.Run("sweeps until cancelled", func(t *testing.T) {
		store := &fakeSweepStore{}
		s := New(store, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		assert.Eventually(t, func() bool {
			return store.callCount() >= 2
		}, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after cancellation")
		}
	})

	t.Run("keeps running after a failed sweep", func(t *testing.T) {
		store := &fakeSweepStore{err: errors.New("transient")}
		s := New(store, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = s.Run(ctx) }()

		assert.Eventually(t, func() bool {
			return store.callCount() >= 2
		}, time.Second, 5*time.Millisecond)
	})
}
