package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Counters struct {
	PaymentsCreated     prometheus.Counter
	ProcessorFailures   prometheus.Counter
	WebhooksReceived    prometheus.Counter
	TransitionsApplied  prometheus.Counter
	TransitionsRejected prometheus.Counter
}

func NewCounters(reg prometheus.Registerer) *Counters {
	factory := promauto.With(reg)

	return &Counters{
		PaymentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_payments_created_total",
			Help: "Payment records created through the intent creator.",
		}),
		ProcessorFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_processor_failures_total",
			Help: "Calls to the payment processor that failed or timed out.",
		}),
		WebhooksReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_webhooks_received_total",
			Help: "Webhook notifications accepted by the reconciler.",
		}),
		TransitionsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_status_transitions_applied_total",
			Help: "Status transitions applied to payment records.",
		}),
		TransitionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "gateway_status_transitions_rejected_total",
			Help: "Status transitions rejected by the transition table.",
		}),
	}
}
