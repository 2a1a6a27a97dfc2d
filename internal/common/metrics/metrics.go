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

// Inference engine metrics.
var (
	RulesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_rules_evaluated_total",
			Help: "Total number of rules evaluated against a profile",
		},
	)

	RulesFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_rules_fired_total",
			Help: "Total number of rules whose conditions matched, by rule",
		},
		[]string{"rule_id"},
	)

	RuleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_rule_errors_total",
			Help: "Rules skipped because their data was malformed or invalid",
		},
		[]string{"reason"},
	)

	RecommendationsPerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_recommendations_per_run",
			Help:    "Number of ranked recommendations returned per inference run",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	RuleFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_rule_fetch_duration_seconds",
			Help:    "Duration of active rule retrieval by source",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"source"},
	)

	RuleCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_rule_cache_requests_total",
			Help: "Rule cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommender_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
