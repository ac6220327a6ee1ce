package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// EngineMetrics exposes the recommendation pipeline's Prometheus metrics.
// Registration tolerates duplicates so multiple constructions (tests,
// restarts of the service container) never panic.
type EngineMetrics struct {
	RecommendationRequests *prometheus.CounterVec
	RecommendationDuration prometheus.Histogram
	CacheEvents            *prometheus.CounterVec
	IndexedProducts        prometheus.Gauge
	InteractionsTracked    prometheus.Counter
}

func NewEngineMetrics(logger *logrus.Logger) *EngineMetrics {
	m := &EngineMetrics{
		RecommendationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Recommendation requests by outcome (ok, fallback)",
		}, []string{"outcome"}),
		RecommendationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation generation latency",
			Buckets: prometheus.DefBuckets,
		}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recommendation_cache_events_total",
			Help: "Recommendation cache lookups by result (hit, miss)",
		}, []string{"result"}),
		IndexedProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "semantic_index_products",
			Help: "Number of products currently held in the semantic index",
		}),
		InteractionsTracked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interactions_tracked_total",
			Help: "User interactions recorded",
		}),
	}

	collectors := []prometheus.Collector{
		m.RecommendationRequests,
		m.RecommendationDuration,
		m.CacheEvents,
		m.IndexedProducts,
		m.InteractionsTracked,
	}
	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				logger.WithError(err).Warn("Failed to register metric")
			}
		}
	}

	return m
}
