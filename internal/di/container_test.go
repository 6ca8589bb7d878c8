package di

import (
	"context"
	"testing"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/config"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/services"
)

type memorySettings struct{ records map[string][]domain.VendorSettingRecord }

func (m *memorySettings) ListByProduct(_ context.Context, productID string) ([]domain.VendorSettingRecord, error) {
	return m.records[productID], nil
}

func (m *memorySettings) Upsert(_ context.Context, productID string, record domain.VendorSettingRecord) error {
	m.records[productID] = append(m.records[productID], record)
	return nil
}

type memorySnapshots struct{}

func (memorySnapshots) Get(context.Context, string) (domain.OfferSnapshot, error) {
	return domain.OfferSnapshot{}, nil
}

func (memorySnapshots) Save(context.Context, domain.OfferSnapshot) error { return nil }

func (memorySnapshots) ListProductIDs(context.Context, int) ([]string, error) { return nil, nil }

type memoryAudits struct{ inserted int }

func (m *memoryAudits) Insert(context.Context, domain.DecisionAudit) error { m.inserted++; return nil }

func (m *memoryAudits) ListByProduct(context.Context, string, int) ([]domain.DecisionAudit, error) {
	return nil, nil
}

type memoryRegistry struct {
	settings *memorySettings
	audits   *memoryAudits
	closed   bool
}

func (r *memoryRegistry) Close(context.Context) error { r.closed = true; return nil }

func (r *memoryRegistry) VendorSettings() repositories.VendorSettingRepository {
	return r.settings
}

func (r *memoryRegistry) OfferSnapshots() repositories.OfferSnapshotRepository {
	return memorySnapshots{}
}

func (r *memoryRegistry) DecisionAudits() repositories.DecisionAuditRepository { return r.audits }

func (r *memoryRegistry) Health() repositories.HealthRepository { return nil }

func TestNewContainerWiresRepricing(t *testing.T) {
	floor := int64(500)
	maxPrice := int64(2000)
	reg := &memoryRegistry{
		settings: &memorySettings{records: map[string][]domain.VendorSettingRecord{
			"P-1": {{VendorID: 1, FloorPrice: &floor, MaxPrice: &maxPrice}},
		}},
		audits: &memoryAudits{},
	}
	cfg := config.Config{Engine: config.EngineConfig{Workers: 2}}

	container, err := NewContainer(context.Background(), cfg, reg, Dependencies{
		Vendors: []domain.OwnVendor{{ID: 1, Name: "Own"}},
	})
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.Services.System != nil {
		t.Fatalf("expected no system service without health repository")
	}

	result, err := container.Services.Repricing.RepriceProduct(context.Background(), services.RepriceProductCommand{
		ProductID: "P-1",
		Offers: []domain.Offer{
			{VendorID: 1, InStock: true, Inventory: 10, ShippingTimeDays: 2, PriceBreaks: []domain.PriceBreak{{MinQty: 1, UnitPrice: 1000}}},
			{VendorID: 2, InStock: true, Inventory: 10, ShippingTimeDays: 2, PriceBreaks: []domain.PriceBreak{{MinQty: 1, UnitPrice: 1100}}},
		},
	})
	if err != nil {
		t.Fatalf("RepriceProduct: %v", err)
	}
	if len(result.Decisions) != 1 || reg.audits.inserted != 1 {
		t.Fatalf("expected one decision and one audit, got %d/%d", len(result.Decisions), reg.audits.inserted)
	}

	if err := container.Close(context.Background()); err != nil || !reg.closed {
		t.Fatalf("expected registry to be closed, err=%v", err)
	}
}

func TestNewContainerRequiresRegistry(t *testing.T) {
	if _, err := NewContainer(context.Background(), config.Config{}, nil, Dependencies{}); err == nil {
		t.Fatalf("expected error without registry")
	}
}
