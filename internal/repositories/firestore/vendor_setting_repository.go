package firestore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	pfirestore "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/firestore"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
)

const (
	productsCollection      = "products"
	vendorSettingsSubfolder = "vendorSettings"
)

// VendorSettingRepository stores records under products/{productId}/vendorSettings/{vendorId}.
type VendorSettingRepository struct {
	provider *pfirestore.Provider
	clock    func() time.Time
}

var _ repositories.VendorSettingRepository = (*VendorSettingRepository)(nil)

// NewVendorSettingRepository constructs a Firestore-backed vendor setting repository.
func NewVendorSettingRepository(provider *pfirestore.Provider) (*VendorSettingRepository, error) {
	if provider == nil {
		return nil, errors.New("vendor setting repository requires firestore provider")
	}
	return &VendorSettingRepository{provider: provider, clock: time.Now}, nil
}

func (r *VendorSettingRepository) collection(productID string) (*pfirestore.BaseRepository[vendorSettingDocument], error) {
	productID = strings.TrimSpace(productID)
	if productID == "" || strings.Contains(productID, "/") {
		return nil, fmt.Errorf("vendor setting repository: invalid product id %q", productID)
	}
	return pfirestore.NewBaseRepository[vendorSettingDocument](r.provider, path.Join(productsCollection, productID, vendorSettingsSubfolder)), nil
}

// ListByProduct returns the product's records ordered by vendor id.
func (r *VendorSettingRepository) ListByProduct(ctx context.Context, productID string) ([]domain.VendorSettingRecord, error) {
	base, err := r.collection(productID)
	if err != nil {
		return nil, err
	}
	docs, err := base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("setting.vendorId", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}
	records := make([]domain.VendorSettingRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.Data.Setting)
	}
	return records, nil
}

// Upsert replaces the stored record of record.VendorID for the product.
func (r *VendorSettingRepository) Upsert(ctx context.Context, productID string, record domain.VendorSettingRecord) error {
	if record.VendorID <= 0 {
		return fmt.Errorf("vendor setting repository: vendor id must be positive, got %d", record.VendorID)
	}
	base, err := r.collection(productID)
	if err != nil {
		return err
	}
	return base.Set(ctx, strconv.FormatInt(record.VendorID, 10), vendorSettingDocument{
		Setting:   record,
		UpdatedAt: r.clock().UTC(),
	})
}
