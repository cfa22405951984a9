package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"daybook/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the reindex worker.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// metrics for cron job execution.
//
// Embedded metrics (from ConfigMetrics):
//   - worker_config_load_timestamp: Unix timestamp of last configuration load
//   - worker_config_validation_errors_total: Total validation errors by field
//   - worker_config_fallbacks_total: Total fallback operations by field
//   - worker_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Worker-specific metrics:
//   - worker_cron_job_runs_total: Total cron job runs by status (success/failure)
//   - worker_cron_job_duration_seconds: Duration histogram of cron job execution
//   - worker_cron_job_documents_total: Index documents touched, by action
//   - worker_cron_job_last_success_timestamp: Unix timestamp of last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts job runs.
	// Labels: status (success, failure)
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds measures the duration of each job run.
	// Buckets: 1s, 5s, 30s, 1m, 5m, 15m, 30m
	CronJobDurationSeconds prometheus.Histogram

	// CronJobDocumentsTotal counts index documents per run.
	// Labels: action (indexed, removed, failed)
	CronJobDocumentsTotal *prometheus.CounterVec

	// CronJobLastSuccessTimestamp records when the last run succeeded.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates the worker metrics and registers them on reg.
// Registering twice on the same registry panics.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		CronJobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800}, // 1s, 5s, 30s, 1m, 5m, 15m, 30m
		}),

		CronJobDocumentsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_documents_total",
			Help: "Total number of index documents touched by reindex runs, by action",
		}, []string{"action"}),

		CronJobLastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
}

// RecordJobRun increments the job run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a job duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordDocuments adds the per-action document counts of one run.
func (m *WorkerMetrics) RecordDocuments(indexed, removed, failed int64) {
	m.CronJobDocumentsTotal.WithLabelValues("indexed").Add(float64(indexed))
	m.CronJobDocumentsTotal.WithLabelValues("removed").Add(float64(removed))
	m.CronJobDocumentsTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordLastSuccess sets the last success gauge to now.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
