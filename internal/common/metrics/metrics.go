// internal/common/metrics/metrics.go
// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "compliance"

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_jobs_completed_total",
			Help:      "Zeebe jobs completed, by task type",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_jobs_failed_total",
			Help:      "Zeebe jobs failed or thrown, by task type and BPMN error code",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_job_duration_seconds",
			Help:      "Handler time per Zeebe job",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_jobs_active",
			Help:      "Jobs currently inside a handler",
		},
		[]string{"task_type"},
	)

	MatchesEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grant_matches_evaluated_total",
			Help:      "Company/grant pairs scored, by strategy",
		},
		[]string{"strategy"},
	)

	MatchesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grant_matches_persisted_total",
			Help:      "Matches above the persistence threshold written to company_grants",
		},
	)

	BatchCompanyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grant_batch_company_failures_total",
			Help:      "Companies whose batch matching or alert refresh failed",
		},
	)

	ComplianceScoreUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_updates_total",
			Help:      "Compliance score recalculations written",
		},
	)

	AlertsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_generated_total",
			Help:      "Alerts written by sync, by source type",
		},
		[]string{"source_type"},
	)

	AlertSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "alerts_sync_duration_seconds",
			Help:      "Duration of a single company alert sync",
			Buckets:   prometheus.DefBuckets,
		},
	)

	TextGenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "text_generation_requests_total",
			Help:      "Text generation calls by provider and outcome",
		},
		[]string{"provider", "status"},
	)
)
