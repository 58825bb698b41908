package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for ballot access verification.
// All recorders are nil-safe so components can run without metrics.
type Metrics struct {
	// Verification outcomes by status and reason
	Outcomes *prometheus.CounterVec

	// Full verify latency, normalization through classification
	VerifyLatency prometheus.Histogram

	// SQL store lookup latency by backend ("sqlite", "postgres")
	LookupLatency *prometheus.HistogramVec

	// Lookup cache results by result ("hit", "miss", "error")
	CacheLookups *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ballot_verification_outcomes_total",
			Help: "Total verification outcomes by status and reason",
		}, []string{"status", "reason"}),

		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballot_verification_duration_seconds",
			Help:    "Duration of a full verification request",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		LookupLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ballot_store_lookup_duration_seconds",
			Help:    "Duration of access store lookups by backend",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"backend"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ballot_store_cache_lookups_total",
			Help: "Access record cache lookups by result",
		}, []string{"result"}),
	}
}

// IncrementOutcome records a classified verification outcome.
func (m *Metrics) IncrementOutcome(status, reason string) {
	if m != nil {
		m.Outcomes.WithLabelValues(status, reason).Inc()
	}
}

// ObserveVerifyLatency records the total verification duration.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

// ObserveLookupLatency records the duration of one store lookup.
func (m *Metrics) ObserveLookupLatency(backend string, d time.Duration) {
	if m != nil {
		m.LookupLatency.WithLabelValues(backend).Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache hit, miss or error.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}
