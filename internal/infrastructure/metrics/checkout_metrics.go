package metrics

import (
	"motostore/internal/usecase/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "motostore"

// CheckoutMetrics exposes checkout and webhook counters to Prometheus.
type CheckoutMetrics struct {
	checkouts       *prometheus.CounterVec
	webhooks        *prometheus.CounterVec
	overdrafts      *prometheus.CounterVec
	closedApprovals *prometheus.CounterVec
	orphans         prometheus.Counter
}

var _ interfaces.ICheckoutMetrics = (*CheckoutMetrics)(nil)

// NewCheckoutMetrics registers the counters on reg.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	f := promauto.With(reg)
	return &CheckoutMetrics{
		checkouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		webhooks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhooks_total",
			Help:      "Payment webhook deliveries by provider and outcome.",
		}, []string{"provider", "outcome"}),
		overdrafts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_overdraft_total",
			Help:      "Approved orders paid without enough stock; require manual reconciliation.",
		}, []string{"provider"}),
		closedApprovals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approved_for_closed_order_total",
			Help:      "Approved payments received for orders that were already cancelled or fulfilled.",
		}, []string{"provider"}),
		orphans: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_orders_cancelled_total",
			Help:      "PENDING orders without payment cancelled by the reconciliation worker.",
		}),
	}
}

func (m *CheckoutMetrics) CheckoutCompleted(provider, outcome string) {
	m.checkouts.WithLabelValues(provider, outcome).Inc()
}

func (m *CheckoutMetrics) WebhookHandled(provider, outcome string) {
	m.webhooks.WithLabelValues(provider, outcome).Inc()
}

func (m *CheckoutMetrics) StockOverdraft(provider string) {
	m.overdrafts.WithLabelValues(provider).Inc()
}

func (m *CheckoutMetrics) ApprovedForClosedOrder(provider string) {
	m.closedApprovals.WithLabelValues(provider).Inc()
}

func (m *CheckoutMetrics) OrphanOrdersCancelled(count int) {
	if count > 0 {
		m.orphans.Add(float64(count))
	}
}
