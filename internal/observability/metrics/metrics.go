package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat pipeline. All observe
// methods are nil-safe so callers can run without metrics wired.
type ChatMetrics struct {
	outcomes        *prometheus.CounterVec
	matches         *prometheus.CounterVec
	fallbackLatency prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxis",
			Subsystem: "chat",
			Name:      "outcome_total",
			Help:      "Terminal pipeline outcomes per request",
		}, []string{"outcome"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "praxis",
			Subsystem: "chat",
			Name:      "match_total",
			Help:      "Knowledge-base matches by matcher",
		}, []string{"via"}),
		fallbackLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "praxis",
			Subsystem: "chat",
			Name:      "fallback_latency_seconds",
			Help:      "Latency of the model-completion fallback",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomes, m.matches, m.fallbackLatency)
	return m
}

func (m *ChatMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *ChatMetrics) ObserveMatch(via string) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(via).Inc()
}

func (m *ChatMetrics) ObserveFallbackLatency(seconds float64) {
	if m == nil {
		return
	}
	m.fallbackLatency.Observe(seconds)
}
