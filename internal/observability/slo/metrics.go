package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Objectives are the targets the API is measured against.
type Objectives struct {
	// Availability is the minimum ratio of non-5xx responses.
	Availability float64
	// LatencyP95 and LatencyP99 are upper bounds in seconds.
	LatencyP95 float64
	LatencyP99 float64
}

// DefaultObjectives: 99.9% availability, p95 under 200ms, p99 under 500ms.
var DefaultObjectives = Objectives{
	Availability: 0.999,
	LatencyP95:   0.200,
	LatencyP99:   0.500,
}

// Met reports, per objective name, whether snap satisfies o.
// A snapshot with no requests meets every objective.
func (o Objectives) Met(snap Snapshot) map[string]bool {
	if snap.Requests == 0 {
		return map[string]bool{"availability": true, "latency_p95": true, "latency_p99": true}
	}
	return map[string]bool{
		"availability": snap.Availability >= o.Availability,
		"latency_p95":  snap.LatencyP95 <= o.LatencyP95,
		"latency_p99":  snap.LatencyP99 <= o.LatencyP99,
	}
}

var (
	availabilityGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_availability_ratio",
		Help: "Share of non-5xx responses since the last publication (0-1)",
	})
	errorRateGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_error_rate_ratio",
		Help: "Share of 5xx responses since the last publication (0-1)",
	})
	latencyGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slo_latency_seconds",
		Help: "Latency percentile over the most recent requests",
	}, []string{"quantile"})
	objectiveMetGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slo_objective_met",
		Help: "1 when the objective was met at the last publication, 0 otherwise",
	}, []string{"objective"})
)

// publish copies snap into the gauges.
func publish(snap Snapshot, o Objectives) {
	availabilityGauge.Set(snap.Availability)
	errorRateGauge.Set(snap.ErrorRate)
	latencyGauge.WithLabelValues("0.95").Set(snap.LatencyP95)
	latencyGauge.WithLabelValues("0.99").Set(snap.LatencyP99)
	for name, ok := range o.Met(snap) {
		v := 0.0
		if ok {
			v = 1
		}
		objectiveMetGauge.WithLabelValues(name).Set(v)
	}
}
