// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	webhookUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_updates_total",
			Help: "Inbound webhook deliveries by normalized event kind.",
		},
		[]string{"kind"},
	)

	statusLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_lookups_total",
			Help: "Status resolver invocations by outcome (found/not_found/upstream_error).",
		},
		[]string{"strategy", "outcome"},
	)

	statusLookupLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "status_lookup_latency_ms",
			Help:    "Status lookup latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"strategy", "outcome"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Outbound send-message calls by result.",
		},
		[]string{"success"},
	)

	quizGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_generations_total",
			Help: "Quiz question generation attempts by result.",
		},
		[]string{"success"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			webhookUpdates, statusLookups, statusLookupLatencyMs,
			messagesSent, quizGenerations,
		)
	})
}

func IncWebhookUpdate(kind string) {
	webhookUpdates.WithLabelValues(kind).Inc()
}

func ObserveStatusLookup(strategy, outcome string, ms float64) {
	statusLookups.WithLabelValues(strategy, outcome).Inc()
	statusLookupLatencyMs.WithLabelValues(strategy, outcome).Observe(ms)
}

func IncMessageSent(ok bool) {
	messagesSent.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func IncQuizGeneration(ok bool) {
	quizGenerations.WithLabelValues(strconv.FormatBool(ok)).Inc()
}
