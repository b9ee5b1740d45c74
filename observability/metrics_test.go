package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/invoices/{id}")

	req := httptest.NewRequest(http.MethodGet, "/invoices/abc", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	body := scrape(t, metrics)
	if !strings.Contains(body, `invoicing_http_requests_total{code="418",route="/invoices/{id}"} 1`) {
		t.Fatalf("expected request to be recorded, got: %s", body)
	}
	if !strings.Contains(body, `invoicing_http_request_duration_seconds_bucket{route="/invoices/{id}"`) {
		t.Fatalf("expected duration histogram, got: %s", body)
	}
}

func TestDomainCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.SerialAllocated(SerialReused)
	metrics.SerialAllocated(SerialGenerated)
	metrics.SerialAllocated(SerialGenerated)
	metrics.InvoiceMutated("create")
	metrics.StorageFailed("timeout")

	body := scrape(t, metrics)
	for _, want := range []string{
		`invoicing_serial_numbers_allocated_total{source="generated"} 2`,
		`invoicing_serial_numbers_allocated_total{source="reused"} 1`,
		`invoicing_invoice_mutations_total{op="create"} 1`,
		`invoicing_storage_errors_total{kind="timeout"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.SerialAllocated(SerialReused)
	metrics.InvoiceMutated("delete")
	metrics.StorageFailed("error")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	rr := httptest.NewRecorder()
	metrics.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected passthrough, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
