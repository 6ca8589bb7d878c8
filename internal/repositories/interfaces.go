package repositories

import (
	"context"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	VendorSettings() VendorSettingRepository
	OfferSnapshots() OfferSnapshotRepository
	DecisionAudits() DecisionAuditRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// VendorSettingRepository stores per-product vendor setting records as operators submit them.
type VendorSettingRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]domain.VendorSettingRecord, error)
	Upsert(ctx context.Context, productID string, record domain.VendorSettingRecord) error
}

// OfferSnapshotRepository stores the latest materialized offer feed per product.
type OfferSnapshotRepository interface {
	Get(ctx context.Context, productID string) (domain.OfferSnapshot, error)
	Save(ctx context.Context, snapshot domain.OfferSnapshot) error
	ListProductIDs(ctx context.Context, limit int) ([]string, error)
}

// DecisionAuditRepository appends decision audits for the report writer.
type DecisionAuditRepository interface {
	Insert(ctx context.Context, audit domain.DecisionAudit) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]domain.DecisionAudit, error)
}

// HealthRepository gathers dependency health for readiness probes.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
