package redirect

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Redirects counts /r/:code outcomes: "redirected", "not_found",
	// "invalid_target" or "error".
	Redirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompi_redirects_total",
			Help: "Total number of short link redirects by outcome",
		},
		[]string{"outcome"},
	)

	ClickEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompi_click_events_total",
			Help: "Click events by outcome (recorded, failed, dropped)",
		},
		[]string{"outcome"},
	)

	LinkCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompi_link_cache_lookups_total",
			Help: "Redirect link cache lookups by result",
		},
		[]string{"result"},
	)
)
