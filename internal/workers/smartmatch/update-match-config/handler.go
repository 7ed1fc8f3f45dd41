// internal/workers/smartmatch/update-match-config/handler.go
package updatematchconfig

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"smartmatch-workers/internal/common/errors"
	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/common/observability"
	"smartmatch-workers/internal/common/validation"
	"smartmatch-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "smartmatch-update-config"

type ConfigSaver interface {
	Save(ctx context.Context, partial map[string]interface{}) (models.SmartMatchConfig, error)
}

type Handler struct {
	config       *Config
	store        ConfigSaver
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, store ConfigSaver, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Config == nil {
		return nil, errors.NewConfigValidationFailedError("config is required")
	}

	result := validation.ValidateInput(input.Config, partialConfigSchema)
	if !result.Valid {
		return nil, errors.NewConfigValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	ctx, span := observability.StartSpan(ctx, "worker."+TaskType)
	defer span.End()

	saved, err := h.store.Save(ctx, input.Config)
	if err != nil {
		return nil, errors.NewConfigSaveFailedError(err)
	}

	keys := make([]string, 0, len(input.Config))
	for k := range input.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h.logger.Info("smart match config saved", map[string]interface{}{
		"updatedBy": input.UpdatedBy,
		"keys":      keys,
		"enabled":   saved.Enabled,
	})

	return &Output{SmartMatchConfig: saved, UpdatedKeys: keys}, nil
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
