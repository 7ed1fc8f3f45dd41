// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Smart match metrics.
var (
	ProfileLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmatch_profile_lookups_total",
			Help: "Vendor profile cache lookups by result (hit, stale, miss, invalid)",
		},
		[]string{"result"},
	)

	ProfilesRecomputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmatch_profiles_recomputed_total",
			Help: "Vendor profiles recomputed by outcome",
		},
		[]string{"outcome"},
	)

	RecomputeRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartmatch_recompute_run_duration_seconds",
			Help:    "Duration of a batch profile recompute run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartmatch_match_score",
			Help:    "Distribution of computed match totals",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	RankCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmatch_rank_cache_lookups_total",
			Help: "Ranked result cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
