// AngelaMos | 2026
// metrics_test.go

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/v1/profiles/{accountID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/profiles/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/profiles/def", nil))

	got := testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("GET", "/v1/profiles/{accountID}", "418"),
	)
	if got != 2 {
		t.Fatalf("expected 2 requests on the route pattern, got %v", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.StatusTransition("approve", nil)
	m.StatusTransition("approve", errors.New("invalid"))
	m.Reconciliation("ready", true)

	if v := testutil.ToFloat64(m.statusTransitions.WithLabelValues("approve", "error")); v != 1 {
		t.Fatalf("expected one failed transition, got %v", v)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "video_reconciliations_total") {
		t.Fatal("expected reconciliation counter in exposition")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.StatusTransition("ban", nil)
	m.OnboardingCommit(nil)
	m.MediaUpload("image", nil)
	m.Reconciliation("processing", false)

	h := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}
