package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of checkout attempts.
type CheckoutMetrics struct {
	duration      *prometheus.HistogramVec
	completed     prometheus.Counter
	rejected      *prometheus.CounterVec
	stockConflict prometheus.Counter
	retries       prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Checkouts that produced an order.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected_total",
		Help: "Checkouts rejected before commit, by reason.",
	}, []string{"reason"})
	stockConflict := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stock_conflicts_total",
		Help: "Reservation attempts refused for insufficient stock.",
	})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_tx_retries_total",
		Help: "Serialization conflicts that triggered a transaction retry.",
	})
	reg.MustRegister(duration, completed, rejected, stockConflict, retries)
	return &CheckoutMetrics{
		duration:      duration,
		completed:     completed,
		rejected:      rejected,
		stockConflict: stockConflict,
		retries:       retries,
	}
}

// ObserveDuration records the duration of one checkout attempt.
func (c *CheckoutMetrics) ObserveDuration(mode string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncCompleted increments the completed checkout counter.
func (c *CheckoutMetrics) IncCompleted() {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.Inc()
}

// IncRejected increments the rejection counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncStockConflict increments the insufficient-stock counter.
func (c *CheckoutMetrics) IncStockConflict() {
	if c == nil || c.stockConflict == nil {
		return
	}
	c.stockConflict.Inc()
}

// IncTxRetry increments the serialization retry counter.
func (c *CheckoutMetrics) IncTxRetry() {
	if c == nil || c.retries == nil {
		return
	}
	c.retries.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
