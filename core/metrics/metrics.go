package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesHandled counts processed Telegram updates by handler and outcome.
	UpdatesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refbot_updates_handled_total",
			Help: "The total number of Telegram updates handled.",
		},
		[]string{"handler", "outcome"},
	)

	// HandlerDuration is a histogram of per-update handler execution time.
	HandlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "refbot_handler_duration_seconds",
			Help:    "A histogram of handler execution duration.",
			Buckets: prometheus.LinearBuckets(0.05, 0.05, 10),
		},
		[]string{"handler"},
	)

	// KeepAlivePings counts self-ping attempts by result.
	KeepAlivePings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refbot_keepalive_pings_total",
			Help: "The total number of keep-alive self-pings.",
		},
		[]string{"result"},
	)
)

// ObserveHandler records one handled update with its duration and outcome.
func ObserveHandler(handler, outcome string, elapsed time.Duration) {
	UpdatesHandled.WithLabelValues(handler, outcome).Inc()
	HandlerDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
}
