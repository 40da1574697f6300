package metrics

import (
	"strings"
	"time"

	"visual-mapper/internal/mapping/balancer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MapperRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapper_requests_total",
			Help: "Total number of mapping requests by selected template",
		},
		[]string{"template"},
	)

	MapperMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mapper_matches_total",
			Help: "Total number of scored components that passed the threshold",
		},
	)

	MapperWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapper_warnings_total",
			Help: "Total number of layout warnings by kind",
		},
		[]string{"kind"},
	)

	MapperPipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mapper_pipeline_duration_seconds",
			Help:    "Duration of one mapping pipeline run in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapper_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	VocabularyReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapper_vocabulary_reloads_total",
			Help: "Vocabulary reload attempts by status",
		},
		[]string{"status"},
	)

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

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// ObserveMapping records one completed pipeline run.
func ObserveMapping(template string, matches int, warnings []string, took time.Duration) {
	MapperRequests.WithLabelValues(template).Inc()
	MapperMatches.Add(float64(matches))
	MapperPipelineDuration.Observe(took.Seconds())
	for _, w := range warnings {
		MapperWarnings.WithLabelValues(WarningKind(w)).Inc()
	}
}

// WarningKind buckets a warning into a bounded label value. Props validation
// warnings start with the component name and share one kind.
func WarningKind(warning string) string {
	kind := balancer.WarningKind(warning)
	if strings.HasPrefix(kind, "ui.") {
		return "props_invalid"
	}
	return kind
}
