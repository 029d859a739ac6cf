package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook outcomes.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "webhook_events_total",
		Help:      "Webhook deliveries by provider and outcome.",
	}, []string{"provider", "outcome"})

	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "billing",
		Name:      "gateway_request_duration_seconds",
		Help:      "Latency of outbound payment gateway calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "operation", "result"})

	CheckoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billing",
		Name:      "checkout_sessions_total",
		Help:      "Checkout sessions created by provider and plan.",
	}, []string{"provider", "plan"})
)

// ObserveGateway records one gateway call started at start.
func ObserveGateway(provider, operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	GatewayRequestDuration.WithLabelValues(provider, operation, result).Observe(time.Since(start).Seconds())
}
