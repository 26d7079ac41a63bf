package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSyncSchedulerRejectsBadInterval(t *testing.T) {
	_, err := NewSyncScheduler(0, SyncExecutorFunc(func(ctx context.Context) error { return nil }), zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestSyncSchedulerRunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	s, err := NewSyncScheduler(10*time.Millisecond, SyncExecutorFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}), zap.NewNop())
	require.NoError(t, err)

	s.Start(context.Background())
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSyncSchedulerStopWaitsForInflightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	s, err := NewSyncScheduler(10*time.Millisecond, SyncExecutorFunc(func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}), zap.NewNop())
	require.NoError(t, err)

	s.Start(context.Background())
	<-started
	s.Stop()

	assert.True(t, finished.Load())
}

func TestSyncSchedulerStartTwiceIsNoop(t *testing.T) {
	s, err := NewSyncScheduler(time.Hour, SyncExecutorFunc(func(ctx context.Context) error { return nil }), zap.NewNop())
	require.NoError(t, err)

	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}
