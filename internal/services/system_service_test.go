package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

type stubHealthRepository struct {
	report SystemHealthReport
	err    error
}

func (s stubHealthRepository) Collect(context.Context) (SystemHealthReport, error) {
	return s.report, s.err
}

func TestSystemService_HealthReportFillsMetadata(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: stubHealthRepository{report: SystemHealthReport{
			Checks: map[string]domain.DependencyHealth{
				"firestore": {Status: domain.HealthStatusOK},
				"pubsub":    {Status: domain.HealthStatusDegraded},
			},
		}},
		Clock: func() time.Time { return now },
		Build: BuildInfo{Version: "1.4.0"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := svc.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != domain.HealthStatusDegraded || report.Version != "1.4.0" || !report.GeneratedAt.Equal(now) {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestSystemService_PropagatesCollectError(t *testing.T) {
	boom := errors.New("boom")
	svc, err := NewSystemService(SystemServiceDeps{HealthRepository: stubHealthRepository{err: boom}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.HealthReport(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected collect error, got %v", err)
	}
	if _, err := NewSystemService(SystemServiceDeps{}); err == nil {
		t.Fatalf("expected error without health repository")
	}
}
