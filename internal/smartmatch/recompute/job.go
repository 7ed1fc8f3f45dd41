// internal/smartmatch/recompute/job.go
package recompute

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"smartmatch-workers/internal/common/logger"
	"smartmatch-workers/internal/common/metrics"
	"smartmatch-workers/internal/models"
)

const (
	DefaultPageSize   = 200
	MaxReportedErrors = 20
)

var tracer = otel.Tracer("smartmatch-workers/recompute")

type ProfileBuilder interface {
	Build(ctx context.Context, businessID string) (*models.VendorReliabilityProfile, error)
}

type ProfileWriter interface {
	Put(ctx context.Context, businessID string, p *models.VendorReliabilityProfile) error
}

type VendorLister interface {
	ListVendorIDs(ctx context.Context, afterID string, limit int) ([]string, error)
}

// Result summarises one recompute run. Errors holds at most MaxReportedErrors messages.
type Result struct {
	RunID      string   `json:"runId"`
	Computed   int      `json:"computed"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors"`
	DurationMs int64    `json:"durationMs"`
}

func (r *Result) recordFailure(businessID string, err error) {
	r.Failed++
	if len(r.Errors) < MaxReportedErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", businessID, err))
	}
}

// Job rebuilds vendor profiles one vendor at a time. A failure on one vendor
// is recorded and never stops the run.
type Job struct {
	builder  ProfileBuilder
	writer   ProfileWriter
	lister   VendorLister
	pageSize int
	logger   logger.Logger
}

func NewJob(builder ProfileBuilder, writer ProfileWriter, lister VendorLister, pageSize int, log logger.Logger) *Job {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Job{
		builder:  builder,
		writer:   writer,
		lister:   lister,
		pageSize: pageSize,
		logger:   log.WithFields(map[string]interface{}{"component": "smartmatch-recompute"}),
	}
}

// Run recomputes every vendor. A listing failure or context cancellation ends
// the run early; the partial result is returned with the error.
func (j *Job) Run(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "smartmatch.recompute.all")
	defer span.End()

	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Errors: []string{}}
	log := j.logger.WithFields(map[string]interface{}{"runId": res.RunID})
	log.Info("profile recompute started", nil)

	var runErr error
	after := ""
	for {
		ids, err := j.lister.ListVendorIDs(ctx, after, j.pageSize)
		if err != nil {
			runErr = fmt.Errorf("list vendors after %q: %w", after, err)
			break
		}
		if err := j.process(ctx, ids, res); err != nil {
			runErr = err
			break
		}
		if len(ids) < j.pageSize {
			break
		}
		after = ids[len(ids)-1]
	}

	j.finish(res, start)
	span.SetAttributes(
		attribute.Int("smartmatch.computed", res.Computed),
		attribute.Int("smartmatch.failed", res.Failed),
	)

	fields := map[string]interface{}{
		"computed":   res.Computed,
		"failed":     res.Failed,
		"durationMs": res.DurationMs,
	}
	if runErr != nil {
		span.RecordError(runErr)
		fields["error"] = runErr.Error()
		log.Error("profile recompute aborted", fields)
		return res, runErr
	}
	log.Info("profile recompute finished", fields)
	return res, nil
}

// RunFor recomputes the given vendors only.
func (j *Job) RunFor(ctx context.Context, ids []string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "smartmatch.recompute.subset")
	defer span.End()

	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Errors: []string{}}
	err := j.process(ctx, ids, res)
	j.finish(res, start)

	j.logger.Info("profile recompute finished", map[string]interface{}{
		"runId":    res.RunID,
		"vendors":  len(ids),
		"computed": res.Computed,
		"failed":   res.Failed,
	})
	return res, err
}

func (j *Job) process(ctx context.Context, ids []string, res *Result) error {
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := j.builder.Build(ctx, id)
		if err == nil {
			err = j.writer.Put(ctx, id, p)
		}
		if err != nil {
			res.recordFailure(id, err)
			metrics.ProfilesRecomputed.WithLabelValues("failure").Inc()
			j.logger.Warn("profile recompute failed for vendor", map[string]interface{}{
				"businessId": id,
				"error":      err.Error(),
			})
			continue
		}
		res.Computed++
		metrics.ProfilesRecomputed.WithLabelValues("success").Inc()
	}
	return nil
}

func (j *Job) finish(res *Result, start time.Time) {
	elapsed := time.Since(start)
	res.DurationMs = elapsed.Milliseconds()
	metrics.RecomputeRunDuration.Observe(elapsed.Seconds())
}
