// internal/workers/smartmatch/recompute-profiles/handler.go
package recomputeprofiles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smartmatch-workers/internal/common/errors"
	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/common/observability"
	"smartmatch-workers/internal/smartmatch/recompute"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "smartmatch-recompute-profiles"

// replyTimeout bounds the complete or fail command sent after a run.
const replyTimeout = 30 * time.Second

type Recomputer interface {
	Run(ctx context.Context) (*recompute.Result, error)
	RunFor(ctx context.Context, ids []string) (*recompute.Result, error)
}

type Handler struct {
	config       *Config
	job          Recomputer
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, job Recomputer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		job:          job,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, errors.NewInputParsingFailedError(err), start)
		return
	}

	output, err := h.Execute(ctx, &input)

	// A full run may outlive the job timeout, so the reply gets its own deadline.
	replyCtx, cancelReply := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	defer cancelReply()

	if err != nil {
		h.fail(replyCtx, client, job, err, start)
		return
	}

	h.completeJob(replyCtx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	observability.RecordJob(ctx, TaskType, "completed", time.Since(start))
}

// Execute runs a full or targeted recompute. Per-vendor failures are reported
// in the result; only an aborted run fails the job. A full run is detached
// from ctx cancellation and runs to completion; a targeted run honours it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ids := cleanIDs(input.BusinessIDs)
	if h.config.MaxExplicitIDs > 0 && len(ids) > h.config.MaxExplicitIDs {
		return nil, errors.NewValidationFailedError(
			fmt.Sprintf("businessIds: at most %d allowed, got %d", h.config.MaxExplicitIDs, len(ids)))
	}

	ctx, span := observability.StartSpan(ctx, "worker."+TaskType)
	defer span.End()
	span.SetAttributes(attribute.Int("smartmatch.explicit_ids", len(ids)))

	var (
		res *recompute.Result
		err error
	)
	if len(ids) == 0 {
		res, err = h.job.Run(context.WithoutCancel(ctx))
	} else {
		res, err = h.job.RunFor(ctx, ids)
	}
	if err != nil {
		if res != nil {
			h.logger.Warn("recompute aborted", map[string]interface{}{
				"runId":    res.RunID,
				"computed": res.Computed,
				"failed":   res.Failed,
			})
		}
		return nil, errors.NewRecomputeFailedError(err)
	}

	h.logger.Info("recompute finished", map[string]interface{}{
		"runId":      res.RunID,
		"computed":   res.Computed,
		"failed":     res.Failed,
		"durationMs": res.DurationMs,
	})
	return &Output{Recompute: res}, nil
}

// cleanIDs trims, drops blanks and removes duplicates, keeping first-seen order.
func cleanIDs(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error, start time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errors.Code(err)).Inc()
	observability.RecordJob(ctx, TaskType, "failed", time.Since(start))
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}
