package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveWebhook("stripe", "payment.succeeded", "applied")
	m.ObserveWebhook("stripe", "payment.succeeded", "applied")
	m.ObserveWebhook("stripe", "", "rejected")
	m.ObservePurchase("pending")

	if got := testutil.ToFloat64(m.WebhookEvents.WithLabelValues("stripe", "payment.succeeded", "applied")); got != 2 {
		t.Fatalf("applied = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.WebhookEvents.WithLabelValues("stripe", "unknown", "rejected")); got != 1 {
		t.Fatalf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Purchases.WithLabelValues("pending")); got != 1 {
		t.Fatalf("purchases = %v, want 1", got)
	}
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
