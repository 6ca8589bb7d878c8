package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/requestctx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger("chatty"); err == nil {
		t.Fatalf("expected invalid level error")
	}
	logger, err := NewLogger("DEBUG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}

func TestParseCloudTraceContext(t *testing.T) {
	sc, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/1;o=1")
	if !ok {
		t.Fatalf("expected header to parse")
	}
	if sc.TraceID().String() != "105445aa7843bc8bf206b12000100000" {
		t.Fatalf("unexpected trace id %s", sc.TraceID())
	}
	if sc.SpanID().String() != "0000000000000001" || !sc.IsSampled() || !sc.IsRemote() {
		t.Fatalf("unexpected span context %+v", sc)
	}

	for _, header := range []string{"", "nope", "zz/1;o=1", "105445aa7843bc8bf206b12000100000/abc"} {
		if _, ok := parseCloudTraceContext(header); ok {
			t.Fatalf("expected %q to be rejected", header)
		}
	}
}

func TestFormatCloudTraceHeaderRoundTrip(t *testing.T) {
	sc, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/12345;o=0")
	if !ok {
		t.Fatalf("expected header to parse")
	}
	if got := formatCloudTraceHeader(sc); got != "105445aa7843bc8bf206b12000100000/12345;o=0" {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestTraceMiddlewareStoresTraceInfo(t *testing.T) {
	var got requestctx.TraceInfo
	handler := TraceMiddleware("proj")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = requestctx.Trace(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got.ProjectID != "proj" {
		t.Fatalf("expected project id on trace info, got %+v", got)
	}
}

func TestRecoveryMiddlewareWritesJSON(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := InjectLoggerMiddleware(zap.New(core))(
		RecoveryMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})),
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal_server_error" {
		t.Fatalf("unexpected body %v", body)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("expected panic to be logged")
	}
}

func TestRequestLoggerMiddlewareLogsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := InjectLoggerMiddleware(zap.New(core))(
		RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one completion log, got %d", len(entries))
	}
	if entries[0].Level != zap.WarnLevel {
		t.Fatalf("expected warn level for 422, got %s", entries[0].Level)
	}
	if entries[0].ContextMap()["status"] != int64(http.StatusUnprocessableEntity) {
		t.Fatalf("unexpected fields %v", entries[0].ContextMap())
	}
}

func TestRepricingTelemetryObserveProduct(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	telemetry, err := NewRepricingTelemetryWithProviders(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider(), zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var _ services.RepricingTelemetry = telemetry
	runCtx := requestctx.WithRun(context.Background(), requestctx.RunInfo{RunID: "run-1"})
	ctx, finish := telemetry.ObserveProduct(runCtx, "P-1", 3)
	if ctx == nil {
		t.Fatalf("expected span context")
	}
	_ = trace.SpanFromContext(ctx)
	finish([]services.Decision{{Result: domain.ResultChangeUp, Valid: true}}, nil)
	repriced := logs.FilterMessage("product repriced").All()
	if len(repriced) != 1 {
		t.Fatalf("expected debug log after success")
	}
	if repriced[0].ContextMap()["runId"] != "run-1" {
		t.Fatalf("expected run id on log, got %v", repriced[0].ContextMap())
	}

	_, finish = telemetry.ObserveProduct(context.Background(), "P-2", 0)
	finish(nil, errors.New("boom"))
	if logs.FilterMessage("product repriced").Len() != 1 {
		t.Fatalf("did not expect success log for failed product")
	}
}

func TestLogSafe(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{in: "/api/v1/products/P-1:reprice", limit: 180, want: "/api/v1/products/P-1:reprice"},
		{in: "P-1\n{\"severity\":\"ERROR\"}", limit: 128, want: "P-1{\"severity\":\"ERROR\"}"},
		{in: "ÄÖÜabc", limit: 4, want: "ÄÖÜa"},
	}
	for _, tc := range cases {
		if got := logSafe(tc.in, tc.limit); got != tc.want {
			t.Fatalf("logSafe(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
	if safePath("") != "/" {
		t.Fatalf("expected empty path to become /")
	}
}
