package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RateLimited = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kompi_rate_limited_requests_total",
		Help: "Requests rejected by the per-client rate limiter",
	},
	[]string{"scope"},
)
