package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coursemarket"

type Metrics struct {
	WebhookEvents *prometheus.CounterVec
	Purchases     *prometheus.CounterVec
}

// New registers the service counters on reg. Passing prometheus.DefaultRegisterer
// exposes them through promhttp.Handler().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by provider, event type and outcome.",
		}, []string{"provider", "type", "outcome"}),
		Purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.WebhookEvents, m.Purchases)
	return m
}

func (m *Metrics) ObserveWebhook(provider, eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	m.WebhookEvents.WithLabelValues(provider, eventType, outcome).Inc()
}

func (m *Metrics) ObservePurchase(outcome string) {
	m.Purchases.WithLabelValues(outcome).Inc()
}
