package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArtifactsRendered counts render attempts.
	// Labels:
	//   - format: "png", "svg", "thumb"
	//   - outcome: "success", "not_found", "error"
	ArtifactsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompi_krcode_renders_total",
			Help: "Total number of KR Code artifact renders",
		},
		[]string{"format", "outcome"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kompi_krcode_render_duration_seconds",
			Help:    "Duration of KR Code artifact renders in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"format"},
	)

	// LogoOutcomes counts what happened to configured logos.
	// Labels:
	//   - format: "png", "svg"
	//   - outcome: "applied", "failed"
	LogoOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kompi_krcode_logo_outcomes_total",
			Help: "Total number of logo composite attempts by outcome",
		},
		[]string{"format", "outcome"},
	)
)
