package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWebhookEventsCounter(t *testing.T) {
	before := testutil.ToFloat64(WebhookEvents.WithLabelValues("flow", OutcomeDuplicate))
	WebhookEvents.WithLabelValues("flow", OutcomeDuplicate).Inc()
	after := testutil.ToFloat64(WebhookEvents.WithLabelValues("flow", OutcomeDuplicate))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestObserveGateway(t *testing.T) {
	ObserveGateway("stripe", "checkout", time.Now(), nil)
	ObserveGateway("stripe", "checkout", time.Now(), errors.New("boom"))
	if n := testutil.CollectAndCount(GatewayRequestDuration); n < 2 {
		t.Fatalf("expected at least 2 series, got %d", n)
	}
}
