// internal/workers/smartmatch/rank-listings/handler.go
package ranklistings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartmatch-workers/internal/common/errors"
	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/common/observability"
	"smartmatch-workers/internal/smartmatch/ranking"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "smartmatch-rank-listings"

type Ranker interface {
	Rank(ctx context.Context, req ranking.Request) (*ranking.Response, error)
}

type Handler struct {
	config       *Config
	ranker       Ranker
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, ranker Ranker, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		ranker:       ranker,
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

	output, err := h.run(ctx, job)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errors.Code(err)).Inc()
		observability.RecordJob(ctx, TaskType, "failed", time.Since(start))
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	observability.RecordJob(ctx, TaskType, "completed", time.Since(start))
}

func (h *Handler) run(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := ParseInput(job.Variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

// ParseInput decodes and checks the job variables.
func ParseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	for i, c := range input.Candidates {
		if c.BusinessID == "" {
			return nil, errors.NewValidationFailedError(fmt.Sprintf("candidates[%d].businessId is required", i))
		}
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.MaxCandidates > 0 && len(input.Candidates) > h.config.MaxCandidates {
		return nil, errors.NewValidationFailedError(
			fmt.Sprintf("%d candidates exceeds the limit of %d", len(input.Candidates), h.config.MaxCandidates))
	}

	ctx, span := observability.StartSpan(ctx, "worker."+TaskType)
	defer span.End()

	resp, err := h.ranker.Rank(ctx, ranking.Request{
		Filter:       input.Filter,
		OrderHistory: input.OrderHistory,
		Candidates:   input.Candidates,
	})
	if err != nil {
		return nil, errors.NewRankingFailedError(err)
	}

	h.logger.Info("listings ranked", map[string]interface{}{
		"candidates": len(input.Candidates),
		"returned":   len(resp.Results),
		"hidden":     resp.Hidden,
		"enabled":    resp.Enabled,
		"cached":     resp.Cached,
	})

	return &Output{SmartMatch: resp}, nil
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
