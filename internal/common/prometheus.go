package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	RaffleEntryTotal           = "raffle_entries_total"
	RaffleDrawTotal            = "raffle_draws_total"
	RafflePublishTotal         = "raffle_publishes_total"
	ResultsCacheTotal          = "raffle_results_cache_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		RaffleEntryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RaffleEntryTotal,
			Help: "Count of accepted entries",
		}, []string{"source"}),
		RaffleDrawTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RaffleDrawTotal,
			Help: "Count of draws by result",
		}, []string{"result"}),
		RafflePublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RafflePublishTotal,
			Help: "Count of publishes by result",
		}, []string{"result"}),
		ResultsCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ResultsCacheTotal,
			Help: "Count of published results lookups in the cache",
		}, []string{"result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
