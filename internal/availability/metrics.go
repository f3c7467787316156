package availability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes counters and histograms for availability reads.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetchTotal   *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	cacheTotal   *prometheus.CounterVec
	staleTotal   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking_widget",
			Subsystem: "availability",
			Name:      "fetch_total",
			Help:      "Availability fetches by outcome",
		}, []string{"outcome"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "booking_widget",
			Subsystem: "availability",
			Name:      "fetch_latency_seconds",
			Help:      "Latency of availability fetches against the booking server",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking_widget",
			Subsystem: "availability",
			Name:      "cache_total",
			Help:      "Availability cache lookups by result",
		}, []string{"result"}),
		staleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking_widget",
			Subsystem: "availability",
			Name:      "stale_total",
			Help:      "Availability answers discarded because a newer date was selected",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fetchTotal, m.fetchLatency, m.cacheTotal, m.staleTotal)
	return m
}

func (m *Metrics) ObserveFetch(kind Kind, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(string(kind)).Inc()
	m.fetchLatency.Observe(d.Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStale() {
	if m == nil {
		return
	}
	m.staleTotal.Inc()
}
