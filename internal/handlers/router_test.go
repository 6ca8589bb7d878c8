package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

type stubSystemService struct {
	report services.SystemHealthReport
	err    error
}

func (s stubSystemService) HealthReport(context.Context) (services.SystemHealthReport, error) {
	return s.report, s.err
}

func TestRouterProbes(t *testing.T) {
	router := NewRouter()
	rec, payload := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || payload["status"] != "ok" {
		t.Fatalf("unexpected healthz %d %v", rec.Code, payload)
	}
	rec, _ = doRequest(t, router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready without system service, got %d", rec.Code)
	}
}

func TestReadyzReflectsDependencyHealth(t *testing.T) {
	unhealthy := NewRouter(WithHealthHandlers(NewHealthHandlers(stubSystemService{report: services.SystemHealthReport{
		Status: domain.HealthStatusError,
		Checks: map[string]domain.DependencyHealth{"firestore": {Status: domain.HealthStatusError, Detail: "timeout"}},
	}})))
	rec, payload := doRequest(t, unhealthy, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable || payload["status"] != domain.HealthStatusError {
		t.Fatalf("expected 503, got %d %v", rec.Code, payload)
	}

	failing := NewRouter(WithHealthHandlers(NewHealthHandlers(stubSystemService{err: errors.New("boom")})))
	rec, payload = doRequest(t, failing, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable || payload["error"] != "health_unavailable" {
		t.Fatalf("expected health_unavailable, got %d %v", rec.Code, payload)
	}
}

func TestRouterUnknownRoutes(t *testing.T) {
	rec, payload := doRequest(t, NewRouter(), http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound || payload["error"] != errorNotFoundCode {
		t.Fatalf("expected route_not_found, got %d %v", rec.Code, payload)
	}
	rec, payload = doRequest(t, NewRouter(), http.MethodPost, "/api/v1/runs", "{}")
	if rec.Code != http.StatusNotImplemented || payload["error"] != "not_implemented" {
		t.Fatalf("expected not_implemented without repricing routes, got %d %v", rec.Code, payload)
	}
	rec, payload = doRequest(t, newTestRouter(&stubRepricingService{}), http.MethodGet, "/api/v1/runs", "")
	if rec.Code != http.StatusMethodNotAllowed || payload["error"] != "method_not_allowed" {
		t.Fatalf("expected method_not_allowed, got %d %v", rec.Code, payload)
	}
}
