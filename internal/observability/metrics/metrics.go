// Package metrics exposes prometheus instruments for the billing engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures billing engine health signals.
type Metrics struct {
	invoicesIssued  *prometheus.CounterVec
	invoiceDuration *prometheus.HistogramVec
	invoiceErrors   *prometheus.CounterVec
	entriesBilled   prometheus.Counter
	overageHours    prometheus.Counter
	storeRetries    prometheus.Counter
	lockContention  prometheus.Counter
}

// New registers the billing instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invoicesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_invoices_issued_total",
			Help: "Invoices issued, by billing model and currency.",
		}, []string{"billing_model", "currency"}),
		invoiceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "praxis_invoice_transaction_seconds",
			Help:    "Duration of the invoice generation transaction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"billing_model"}),
		invoiceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_invoice_errors_total",
			Help: "Failed invoice generation attempts, by error kind.",
		}, []string{"billing_model", "kind"}),
		entriesBilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_time_entries_billed_total",
			Help: "Time entries consumed by issued invoices.",
		}),
		overageHours: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_overage_hours_total",
			Help: "Subscription overage hours allocated.",
		}),
		storeRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_store_retries_total",
			Help: "Transient data-store failures retried.",
		}),
		lockContention: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_invoice_lock_contention_total",
			Help: "Invoice requests rejected because the task was locked.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.invoicesIssued,
			m.invoiceDuration,
			m.invoiceErrors,
			m.entriesBilled,
			m.overageHours,
			m.storeRetries,
			m.lockContention,
		)
	}
	return m
}

func (m *Metrics) IncInvoiceIssued(model, currency string) {
	if m == nil {
		return
	}
	m.invoicesIssued.WithLabelValues(model, currency).Inc()
}

func (m *Metrics) ObserveInvoiceDuration(model string, d time.Duration) {
	if m == nil {
		return
	}
	m.invoiceDuration.WithLabelValues(model).Observe(d.Seconds())
}

func (m *Metrics) IncInvoiceError(model, kind string) {
	if m == nil {
		return
	}
	m.invoiceErrors.WithLabelValues(model, kind).Inc()
}

func (m *Metrics) AddEntriesBilled(n int) {
	if m == nil {
		return
	}
	m.entriesBilled.Add(float64(n))
}

func (m *Metrics) AddOverageHours(hours float64) {
	if m == nil || hours <= 0 {
		return
	}
	m.overageHours.Add(hours)
}

func (m *Metrics) IncStoreRetry() {
	if m == nil {
		return
	}
	m.storeRetries.Inc()
}

func (m *Metrics) IncLockContention() {
	if m == nil {
		return
	}
	m.lockContention.Inc()
}
