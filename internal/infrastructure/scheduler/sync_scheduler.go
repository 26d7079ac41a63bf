package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidInterval is returned when the scheduler is created with a
// non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// SyncExecutor runs one full reconciliation pass across all stores.
type SyncExecutor interface {
	Execute(ctx context.Context) error
}

// SyncExecutorFunc adapts a plain function to SyncExecutor.
type SyncExecutorFunc func(ctx context.Context) error

// Execute implements SyncExecutor.
func (f SyncExecutorFunc) Execute(ctx context.Context) error { return f(ctx) }

// SyncScheduler triggers a full store sync at a fixed interval. A run that
// is already in flight when Stop is called completes before Stop returns;
// ticks that fire while a run is active are skipped.
type SyncScheduler struct {
	interval time.Duration
	executor SyncExecutor
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncScheduler creates a sync scheduler.
func NewSyncScheduler(interval time.Duration, executor SyncExecutor, logger *zap.Logger) (*SyncScheduler, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &SyncScheduler{
		interval: interval,
		executor: executor,
		logger:   logger,
	}, nil
}

// Start starts the periodic loop. Calling Start on a running scheduler is a
// no-op.
func (s *SyncScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("sync scheduler started", zap.Duration("interval", s.interval))
}

// Stop stops the loop and waits for any in-flight run to complete.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

func (s *SyncScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes one pass with a detached context so an in-flight run is
// not severed mid-store by Stop.
func (s *SyncScheduler) runOnce(ctx context.Context) {
	start := time.Now()
	if err := s.executor.Execute(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("scheduled sync failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return
	}
	s.logger.Info("scheduled sync completed", zap.Duration("elapsed", time.Since(start)))
}
