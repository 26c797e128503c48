package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/products", 200, 30*time.Millisecond)
	m.ObserveRequest("GET", "/api/products", 200, 10*time.Millisecond)
	m.ObserveRequest("POST", "/api/orders", 409, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/products", "200")); got != 2 {
		t.Fatalf("expected 2 GET requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/orders", "409")); got != 1 {
		t.Fatalf("expected 1 conflicting POST, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	m.IncInFlight()
	m.DecInFlight()

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/", 200, time.Millisecond)
}
