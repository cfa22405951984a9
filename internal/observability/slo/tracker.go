package slo

import (
	"context"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Snapshot is one publication of the SLO gauges.
type Snapshot struct {
	Requests     int64
	Availability float64
	ErrorRate    float64
	LatencyP95   float64
	LatencyP99   float64
}

// Tracker accumulates request outcomes between publications and keeps the
// latencies of the most recent requests for the percentile gauges.
type Tracker struct {
	objectives Objectives

	mu        sync.Mutex
	latencies []float64
	next      int
	filled    bool
	total     int64
	failures  int64
}

// NewTracker returns a tracker that computes percentiles over the last
// window requests and judges them against DefaultObjectives. A window below 1
// defaults to 1000.
func NewTracker(window int) *Tracker {
	if window < 1 {
		window = 1000
	}
	return &Tracker{objectives: DefaultObjectives, latencies: make([]float64, window)}
}

// WithObjectives replaces the targets used by Publish.
func (t *Tracker) WithObjectives(o Objectives) *Tracker {
	t.objectives = o
	return t
}

// Observe records one served request. 5xx responses count against availability.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if status >= http.StatusInternalServerError {
		t.failures++
	}
	t.latencies[t.next] = d.Seconds()
	t.next++
	if t.next == len(t.latencies) {
		t.next = 0
		t.filled = true
	}
}

// Publish computes the current snapshot, sets the SLO gauges and resets the
// request counters. The latency sample is kept.
func (t *Tracker) Publish() Snapshot {
	t.mu.Lock()
	n := t.next
	if t.filled {
		n = len(t.latencies)
	}
	sample := make([]float64, n)
	copy(sample, t.latencies[:n])
	snap := Snapshot{Requests: t.total, Availability: 1}
	if t.total > 0 {
		snap.ErrorRate = float64(t.failures) / float64(t.total)
		snap.Availability = 1 - snap.ErrorRate
	}
	t.total, t.failures = 0, 0
	t.mu.Unlock()

	sort.Float64s(sample)
	snap.LatencyP95 = percentile(sample, 0.95)
	snap.LatencyP99 = percentile(sample, 0.99)

	publish(snap, t.objectives)
	return snap
}

// Run publishes every interval until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Publish()
		}
	}
}

// percentile uses the nearest-rank method on a sorted sample.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
