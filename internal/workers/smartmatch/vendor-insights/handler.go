// internal/workers/smartmatch/vendor-insights/handler.go
package vendorinsights

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"smartmatch-workers/internal/common/errors"
	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/common/observability"
	"smartmatch-workers/internal/models"
	"smartmatch-workers/internal/smartmatch/insights"
	"smartmatch-workers/internal/smartmatch/profile"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "smartmatch-vendor-insights"

type ProfileCache interface {
	GetOne(ctx context.Context, id string) (*models.VendorReliabilityProfile, error)
	Put(ctx context.Context, id string, p *models.VendorReliabilityProfile) error
}

type ProfileBuilder interface {
	Build(ctx context.Context, businessID string) (*models.VendorReliabilityProfile, error)
}

type Handler struct {
	config       *Config
	cache        ProfileCache
	builder      ProfileBuilder
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, cache ProfileCache, builder ProfileBuilder, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		cache:        cache,
		builder:      builder,
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
	if err != nil {
		h.fail(ctx, client, job, err, start)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	observability.RecordJob(ctx, TaskType, "completed", time.Since(start))
}

// Execute returns the dashboard insights for one vendor. A cached profile is
// used when valid; otherwise, or on refresh, the profile is rebuilt and stored.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := strings.TrimSpace(input.BusinessID)
	if id == "" {
		return nil, errors.NewValidationFailedError("businessId is required")
	}

	ctx, span := observability.StartSpan(ctx, "worker."+TaskType)
	defer span.End()

	out := &Output{BusinessID: id, Insights: []models.VendorMatchInsight{}}

	var p *models.VendorReliabilityProfile
	if !input.Refresh {
		cached, err := h.cache.GetOne(ctx, id)
		if err != nil {
			h.logger.Warn("profile cache read failed", map[string]interface{}{
				"businessId": id,
				"error":      err.Error(),
			})
		}
		p = cached
	}

	if p == nil && (input.Refresh || h.config.BuildOnMiss) {
		built, err := h.builder.Build(ctx, id)
		if stderrors.Is(err, profile.ErrVendorNotFound) {
			return nil, errors.NewVendorNotFoundError(id)
		}
		if err != nil {
			return nil, errors.NewProfileBuildFailedError(id, err)
		}
		if err := h.cache.Put(ctx, id, built); err != nil {
			h.logger.Warn("failed to store rebuilt profile", map[string]interface{}{
				"businessId": id,
				"error":      err.Error(),
			})
		}
		p = built
		out.Recomputed = true
	}

	if p == nil {
		return out, nil
	}

	out.Available = true
	out.Profile = p
	out.Insights = insights.Generate(p)
	return out, nil
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
