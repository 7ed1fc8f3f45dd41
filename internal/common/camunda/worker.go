// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"smartmatch-workers/internal/common/config"
	"smartmatch-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobWorkerFactory is the part of zbc.Client used to open job workers.
type JobWorkerFactory interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

// Registry opens job workers and closes them together on shutdown.
type Registry struct {
	factory JobWorkerFactory
	logger  logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewRegistry(factory JobWorkerFactory, log logger.Logger) *Registry {
	return &Registry{
		factory: factory,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a worker for taskType unless it is disabled in config.
func (r *Registry) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		r.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jw := r.factory.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType + "-worker").
		Open()

	r.mu.Lock()
	r.workers[taskType] = jw
	r.mu.Unlock()

	r.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
}

// TaskTypes lists the started workers.
func (r *Registry) TaskTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.workers))
	for t := range r.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs, up to timeout per worker.
func (r *Registry) Close(timeout time.Duration) {
	r.mu.Lock()
	workers := r.workers
	r.workers = make(map[string]worker.JobWorker)
	r.mu.Unlock()

	for taskType, jw := range workers {
		jw.Close()
		done := make(chan struct{})
		go func() {
			jw.AwaitClose()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			r.logger.Warn("worker did not stop in time", map[string]interface{}{"taskType": taskType})
		}
	}
}
