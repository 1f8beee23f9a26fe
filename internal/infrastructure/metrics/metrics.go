package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts handled conversational turns by outcome
	// (ok, fallback, bad_request, invalid_session, session_expired,
	// upstream_timeout, upstream_error).
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tempochat",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Total number of handled conversational turns",
		},
		[]string{"outcome"},
	)

	// UpstreamDuration measures completion provider latency.
	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tempochat",
			Subsystem: "chat",
			Name:      "upstream_duration_seconds",
			Help:      "Completion provider request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)

	// RecorderWritesTotal counts background turn-recorder writes by status
	// (ok, error).
	RecorderWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tempochat",
			Subsystem: "chat",
			Name:      "recorder_writes_total",
			Help:      "Total background turn persistence attempts",
		},
		[]string{"status"},
	)

	// ContextLoads counts context store reads by result (hit, empty, error).
	ContextLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tempochat",
			Subsystem: "chat",
			Name:      "context_loads_total",
			Help:      "Total context store reads",
		},
		[]string{"result"},
	)
)
