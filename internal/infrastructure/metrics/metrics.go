package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the explanation harness, served on the callback server's
// /metrics endpoint.
var (
	// ScoreRequests counts scoring callback invocations from the explanation sidecar
	ScoreRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "explainer",
		Name:      "score_requests_total",
		Help:      "Number of scoring callback requests handled",
	})

	// ScoreLatency observes end-to-end scoring callback latency
	ScoreLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "explainer",
		Name:      "score_latency_seconds",
		Help:      "Latency of scoring callback requests",
		Buckets:   prometheus.DefBuckets,
	})

	// ClassifierLatency observes native classifier call latency per method
	ClassifierLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "explainer",
		Name:      "classifier_latency_seconds",
		Help:      "Latency of native classifier calls",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// Explanations counts finished explanation runs by outcome
	Explanations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "explainer",
		Name:      "explanations_total",
		Help:      "Number of explanation runs by method and status",
	}, []string{"method", "status"})
)
