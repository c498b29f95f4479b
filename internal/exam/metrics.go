package exam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exam_generations_total",
		Help: "Generation requests by outcome.",
	}, []string{"status"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exam_generation_duration_seconds",
		Help:    "End-to-end question generation latency.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exam_scoring_duration_seconds",
		Help:    "Quality scoring latency.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	scoringFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exam_scoring_failures_total",
		Help: "Scoring runs that were swallowed to null scores.",
	})
)
