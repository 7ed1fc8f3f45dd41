// internal/smartmatch/recompute/runner.go
package recompute

import (
	"context"
	"sync"
	"time"

	"smartmatch-workers/internal/common/logger"
)

// Runner executes a Job on a fixed interval. Runs never overlap: a tick that
// arrives while a run is in progress is dropped.
type Runner struct {
	job      *Job
	interval time.Duration
	logger   logger.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRunner(job *Job, interval time.Duration, log logger.Logger) *Runner {
	return &Runner{
		job:      job,
		interval: interval,
		logger:   log.WithFields(map[string]interface{}{"component": "smartmatch-recompute-runner"}),
	}
}

// Start returns immediately. It is a no-op when already started or when the interval is not positive.
func (r *Runner) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("periodic profile recompute disabled", nil)
		return
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.loop(ctx)
	r.logger.Info("periodic profile recompute started", map[string]interface{}{
		"interval": r.interval.String(),
	})
}

// Stop signals the loop and waits for an in-flight run to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	close(stopCh)
	<-doneCh

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}

func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			runCtx, cancel := context.WithCancel(ctx)
			go func() {
				select {
				case <-r.stopCh:
					cancel()
				case <-runCtx.Done():
				}
			}()
			_, _ = r.job.Run(runCtx)
			cancel()
		}
	}
}
