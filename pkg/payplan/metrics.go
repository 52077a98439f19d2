package payplan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for pay plan endpoint requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payplan_requests_total",
		Help: "Total pay plan endpoint requests by HTTP status",
	}, []string{"status"})

	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payplan_pages_fetched_total",
		Help: "Total pages fetched from the pay plan endpoint",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payplan_request_duration_seconds",
		Help:    "Pay plan request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
)
