package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/requestctx"
)

func TestWriteErrorIncludesTraceAndDetails(t *testing.T) {
	ctx := requestctx.WithTrace(context.Background(), requestctx.TraceInfo{TraceID: "trace-1"})
	rec := httptest.NewRecorder()

	err := NewError("invalid_input", "bad\nrequest", http.StatusBadRequest).
		WithDetails(map[string]any{"field": "offers"})
	WriteError(ctx, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body map[string]any
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode body: %v", decodeErr)
	}
	if body["error"] != "invalid_input" || body["message"] != "bad request" {
		t.Fatalf("unexpected envelope %v", body)
	}
	if body["trace_id"] != "trace-1" || body["field"] != "offers" {
		t.Fatalf("expected trace id and details, got %v", body)
	}
	if _, ok := body["request_id"]; ok {
		t.Fatalf("did not expect request id without middleware")
	}
}

func TestNewErrorDefaultsStatus(t *testing.T) {
	if got := NewError("x", "y", 0).Status; got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
}
