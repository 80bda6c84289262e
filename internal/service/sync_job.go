package service

import (
	"context"
	"sync"
	"time"
)

// SyncJob drives a CycleRunner on a ticker. The job is idle until Start is
// called.
type SyncJob struct {
	runner CycleRunner

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob that calls runner.RunCycle on a ticker.
func NewSyncJob(runner CycleRunner) *SyncJob {
	return &SyncJob{runner: runner}
}

// Start stops any previously running job, then launches a background
// goroutine that runs a cycle every interval. An interval of zero or less
// disables periodic refresh: the job stays idle and cycles only run through
// manual triggers. The goroutine exits when ctx is cancelled or Stop is
// called.
func (j *SyncJob) Start(ctx context.Context, interval time.Duration) {
	j.Stop()

	if interval <= 0 {
		return
	}

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_ = j.runner.RunCycle(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited, letting an in-flight cycle finish. Safe to
// call when the job is not running (no-op in that case).
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
