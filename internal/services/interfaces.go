package services

import (
	"context"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Offer               = domain.Offer
	PriceBreak          = domain.PriceBreak
	Badge               = domain.Badge
	VendorKind          = domain.VendorKind
	VendorSetting       = domain.VendorSetting
	VendorSettingRecord = domain.VendorSettingRecord
	OwnVendor           = domain.OwnVendor
	RunContext          = domain.RunContext
	BoardEntry          = domain.BoardEntry
	CandidateSolution   = domain.CandidateSolution
	Decision            = domain.Decision
	ResultCode          = domain.ResultCode
	OfferSnapshot       = domain.OfferSnapshot
	DecisionAudit       = domain.DecisionAudit
	ProductRunResult    = domain.ProductRunResult
	BatchRun            = domain.BatchRun
	SystemHealthReport  = domain.SystemHealthReport
)

const (
	VendorKindSelf       = domain.VendorKindSelf
	VendorKindSister     = domain.VendorKindSister
	VendorKindSimulated  = domain.VendorKindSimulated
	VendorKindCompetitor = domain.VendorKindCompetitor
)

// RepricingService runs the buy-box engine for stored or submitted products and hands the
// outcome to the audit trail and the price-change publisher.
type RepricingService interface {
	RepriceProduct(ctx context.Context, cmd RepriceProductCommand) (ProductRunResult, error)
	RunBatch(ctx context.Context, cmd RunBatchCommand) (BatchRun, error)

	SaveVendorSetting(ctx context.Context, productID string, record VendorSettingRecord) (VendorSetting, error)
	SaveOfferSnapshot(ctx context.Context, snapshot OfferSnapshot) error
	ListDecisionAudits(ctx context.Context, productID string, limit int) ([]DecisionAudit, error)
}

// PriceChangePublisher forwards accepted price changes to the downstream price updater.
type PriceChangePublisher interface {
	PublishPriceChanges(ctx context.Context, msg PriceChangeMessage) error
}

// SystemService reports dependency health for readiness probes.
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}

// RepriceProductCommand asks for one product to be repriced. When Offers is empty the latest
// stored snapshot is used; when Settings is empty the settings store is consulted.
type RepriceProductCommand struct {
	ProductID string
	Offers    []Offer
	Settings  []VendorSettingRecord
	RunID     string
	SlowRun   bool
	DryRun    bool
}

// RunBatchCommand reprices many stored products in one run.
type RunBatchCommand struct {
	ProductIDs []string
	SlowRun    bool
	Limit      int
}

// PriceChangeMessage is the payload published for every valid CHANGE_* decision of a product.
type PriceChangeMessage struct {
	RunID     string        `json:"runId"`
	ProductID string        `json:"productId"`
	SlowRun   bool          `json:"slowRun"`
	Changes   []PriceChange `json:"changes"`
}

// PriceChange is one vendor/quantity price update.
type PriceChange struct {
	VendorID       int64      `json:"vendorId"`
	Quantity       int        `json:"quantity"`
	Result         ResultCode `json:"result"`
	ExistingPrice  *int64     `json:"existingPrice,omitempty"`
	SuggestedPrice int64      `json:"suggestedPrice"`
	TriggeredBy    *int64     `json:"triggeredBy,omitempty"`
	Rationale      string     `json:"rationale"`
}
