package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const maxAuditListLimit = 100

// SaveVendorSetting validates the record against the vendor table defaults and stores it as submitted.
func (s *repricingService) SaveVendorSetting(ctx context.Context, productID string, record VendorSettingRecord) (VendorSetting, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return VendorSetting{}, fmt.Errorf("%w: product id is required", ErrRepricingInvalidInput)
	}
	if s.settings == nil {
		return VendorSetting{}, ErrRepricingStoreMissing
	}

	defaults := s.vendorDefaults()
	base, own := defaults[record.VendorID]
	if len(defaults) > 0 && !own {
		return VendorSetting{}, fmt.Errorf("%w: vendor %d is not an own vendor", ErrRepricingInvalidInput, record.VendorID)
	}
	setting, err := NormalizeVendorSetting(OverlayVendorSettingRecord(base, record))
	if err != nil {
		return VendorSetting{}, err
	}
	if err := s.settings.Upsert(ctx, productID, record); err != nil {
		return VendorSetting{}, fmt.Errorf("repricing service: store setting for %s: %w", productID, err)
	}
	s.logger.Info("vendor setting saved", zap.String("productId", productID), zap.Int64("vendorId", record.VendorID))
	return setting, nil
}

// SaveOfferSnapshot stores the latest offer feed of a product for later batch runs.
func (s *repricingService) SaveOfferSnapshot(ctx context.Context, snapshot OfferSnapshot) error {
	snapshot.ProductID = strings.TrimSpace(snapshot.ProductID)
	if snapshot.ProductID == "" {
		return fmt.Errorf("%w: product id is required", ErrRepricingInvalidInput)
	}
	if len(snapshot.Offers) == 0 {
		return fmt.Errorf("%w: snapshot for %s has no offers", ErrRepricingInvalidInput, snapshot.ProductID)
	}
	if s.snapshots == nil {
		return ErrRepricingSnapshotStoreMissing
	}
	if snapshot.CapturedAt.IsZero() {
		snapshot.CapturedAt = s.clock()
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("repricing service: store snapshot for %s: %w", snapshot.ProductID, err)
	}
	return nil
}

// ListDecisionAudits returns the product's most recent audits, newest first.
func (s *repricingService) ListDecisionAudits(ctx context.Context, productID string, limit int) ([]DecisionAudit, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrRepricingInvalidInput)
	}
	if s.audits == nil {
		return nil, ErrRepricingAuditStoreMissing
	}
	if limit <= 0 || limit > maxAuditListLimit {
		limit = maxAuditListLimit
	}
	audits, err := s.audits.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("repricing service: list audits for %s: %w", productID, err)
	}
	return audits, nil
}
