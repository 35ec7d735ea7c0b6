package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncPlaced(3)
	m.IncPlaced(1)
	m.IncRejected("insufficient stock")
	m.ObserveDuration("success", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.placed); got != 2 {
		t.Fatalf("expected 2 placed orders, got %v", got)
	}
	if got := testutil.ToFloat64(m.lineItems); got != 4 {
		t.Fatalf("expected 4 line items, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("insufficient_stock")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	var m *CheckoutMetrics
	m.IncPlaced(1)
	m.IncRejected("whatever")
	m.ObserveDuration("success", time.Second)

	empty := NewCheckoutMetrics(nil)
	empty.IncPlaced(1)
	empty.IncRejected("whatever")
}
