package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommend HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of the recommend handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of recommendation requests served, by source
	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total number of recommend requests",
	}, []string{"mode"})

	// Count of recorded user actions by action type
	ActionsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "actions_recorded_total",
		Help: "Count of recorded user actions by action type",
	}, []string{"action_type"})

	// Scenarios that failed inside a batch recommend call
	BatchScenarioFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_batch_scenario_failures_total",
		Help: "Count of batch scenarios that failed and returned empty results",
	})

	// Profile rebuilds, split by outcome
	ProfileRebuilds = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_rebuilds_total",
		Help: "Count of profile rebuilds by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequests,
		ActionsRecordedTotal,
		BatchScenarioFailures,
		ProfileRebuilds,
	)
}
