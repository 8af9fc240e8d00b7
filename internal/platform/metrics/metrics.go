// Package metrics provides Prometheus instrumentation for the matching
// engine's critical paths.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks request volume and match computation latency.
type Metrics struct {
	RequestsCreated    prometheus.Counter
	ResponsesSubmitted prometheus.Counter
	DonationsRecorded  prometheus.Counter
	MatchDuration      prometheus.Histogram
	RankDuration       prometheus.Histogram
}

// New registers all engine metrics against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_requests_created_total",
			Help: "Total number of blood requests created",
		}),
		ResponsesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_responses_submitted_total",
			Help: "Total number of donor responses submitted",
		}),
		DonationsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_donations_recorded_total",
			Help: "Total number of completed donations recorded",
		}),
		MatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodlink_match_duration_seconds",
			Help:    "Duration of nearby donor match computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RankDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodlink_rank_duration_seconds",
			Help:    "Duration of response prioritization computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRequestCreated records a created blood request.
func (m *Metrics) IncrementRequestCreated() {
	m.RequestsCreated.Inc()
}

// IncrementResponseSubmitted records a submitted donor response.
func (m *Metrics) IncrementResponseSubmitted() {
	m.ResponsesSubmitted.Inc()
}

// IncrementDonationRecorded records a completed donation.
func (m *Metrics) IncrementDonationRecorded() {
	m.DonationsRecorded.Inc()
}

// ObserveMatch records the duration of a nearby donor match computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveMatch(start time.Time) {
	m.MatchDuration.Observe(time.Since(start).Seconds())
}

// ObserveRank records the duration of a response prioritization pass.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRank(start time.Time) {
	m.RankDuration.Observe(time.Since(start).Seconds())
}
