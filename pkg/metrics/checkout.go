package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of the order placement path.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	placed    prometheus.Counter
	rejected  *prometheus.CounterVec
	lineItems prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Order placements rejected, labelled by reason.",
	}, []string{"reason"})
	lineItems := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_line_items_total",
		Help: "Line items across successfully placed orders.",
	})
	reg.MustRegister(duration, placed, rejected, lineItems)
	return &CheckoutMetrics{
		duration:  duration,
		placed:    placed,
		rejected:  rejected,
		lineItems: lineItems,
	}
}

// ObserveDuration records the duration of one placement attempt.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncPlaced counts a successful placement with its line item count.
func (c *CheckoutMetrics) IncPlaced(lineItems int) {
	if c == nil || c.placed == nil {
		return
	}
	c.placed.Inc()
	c.lineItems.Add(float64(lineItems))
}

// IncRejected counts a rejected placement by reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
