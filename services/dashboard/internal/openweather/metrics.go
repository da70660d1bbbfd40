package openweather

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeNotFound  = "not_found"
	outcomeFailed    = "fetch_failed"
	outcomeMalformed = "malformed"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_openweather_requests_total",
		Help: "Upstream OpenWeatherMap requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_openweather_request_duration_seconds",
		Help:    "Upstream OpenWeatherMap request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func observe(endpoint, outcome string) {
	requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
