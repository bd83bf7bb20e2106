// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks backend HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total backend HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TransportDuration tracks widget-side backend call duration.
	TransportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transport_call_duration_seconds",
			Help:    "Backend call duration seen by the widget transport",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation", "outcome"},
	)

	// MessagesTotal tracks message records appended to session logs.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Message records appended, by sender and kind",
		},
		[]string{"sender", "kind"},
	)

	// ConversationsTotal tracks conversations started by the backend.
	ConversationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_total",
			Help: "Total conversations started",
		},
	)

	// AssistantIntents tracks which intent the assistant routed a
	// message to.
	AssistantIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_intents_total",
			Help: "Assistant intent routing decisions",
		},
		[]string{"intent"},
	)
)

// RecordRequest records metrics for a backend HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTransport records metrics for a widget-side backend call.
func RecordTransport(operation, outcome string, duration float64) {
	TransportDuration.WithLabelValues(operation, outcome).Observe(duration)
}

// RecordMessage records a message record appended to a session log.
func RecordMessage(sender, kind string) {
	MessagesTotal.WithLabelValues(sender, kind).Inc()
}
