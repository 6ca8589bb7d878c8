package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/httpx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/requestctx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

// HealthHandlers serves the liveness and readiness probes.
type HealthHandlers struct {
	system    services.SystemService
	startedAt time.Time
	clock     func() time.Time
}

// NewHealthHandlers constructs the probe handlers. Without a system service /readyz reports ok.
func NewHealthHandlers(system services.SystemService) *HealthHandlers {
	return &HealthHandlers{system: system, startedAt: time.Now(), clock: time.Now}
}

type dependencyPayload struct {
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Healthz reports that the process is up.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    domain.HealthStatusOK,
		"uptime":    now.Sub(h.startedAt).Round(time.Second).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz reports dependency health. Any dependency in error makes the instance unready.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.system == nil {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": domain.HealthStatusOK})
		return
	}

	report, err := h.system.HealthReport(ctx)
	if err != nil {
		requestctx.Logger(ctx).Error("health report failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("health_unavailable", "health report failed", http.StatusServiceUnavailable))
		return
	}

	checks := make(map[string]dependencyPayload, len(report.Checks))
	for name, check := range report.Checks {
		checks[name] = dependencyPayload{
			Status:    check.Status,
			Detail:    check.Detail,
			LatencyMS: check.Latency.Milliseconds(),
		}
	}
	status := http.StatusOK
	if report.Status == domain.HealthStatusError {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, map[string]any{
		"status":       report.Status,
		"version":      report.Version,
		"checks":       checks,
		"generated_at": report.GeneratedAt.Format(time.RFC3339),
	})
}
