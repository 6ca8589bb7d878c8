package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/requestctx"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
)

const (
	defaultRepricingWorkers = 4
	defaultBatchLimit       = 500
)

// RepricingTelemetry observes one product computation. The returned func is called once with
// the outcome.
type RepricingTelemetry interface {
	ObserveProduct(ctx context.Context, productID string, offers int) (context.Context, func(decisions []Decision, err error))
}

type noopRepricingTelemetry struct{}

func (noopRepricingTelemetry) ObserveProduct(ctx context.Context, _ string, _ int) (context.Context, func([]Decision, error)) {
	return ctx, func([]Decision, error) {}
}

type repricingService struct {
	engine    *RepricingEngine
	settings  repositories.VendorSettingRepository
	snapshots repositories.OfferSnapshotRepository
	audits    repositories.DecisionAuditRepository
	publisher PriceChangePublisher
	telemetry RepricingTelemetry
	vendors   []OwnVendor
	logger    *zap.Logger
	workers   int
	clock     func() time.Time
	newID     func() string
}

// RepricingServiceDeps bundles constructor inputs for the repricing service.
type RepricingServiceDeps struct {
	Engine      *RepricingEngine
	Settings    repositories.VendorSettingRepository
	Snapshots   repositories.OfferSnapshotRepository
	Audits      repositories.DecisionAuditRepository
	Publisher   PriceChangePublisher
	Telemetry   RepricingTelemetry
	Vendors     []OwnVendor
	Logger      *zap.Logger
	Workers     int
	Clock       func() time.Time
	IDGenerator func() string
}

// NewRepricingService wires the engine with its stores. Settings and snapshot stores may be nil
// when every request carries its own offers and settings.
func NewRepricingService(deps RepricingServiceDeps) (RepricingService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := deps.Engine
	if engine == nil {
		engine = NewRepricingEngine(RepricingEngineDeps{Logger: logger})
	}
	telemetry := deps.Telemetry
	if telemetry == nil {
		telemetry = noopRepricingTelemetry{}
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = defaultRepricingWorkers
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}

	seen := make(map[int64]struct{}, len(deps.Vendors))
	for _, vendor := range deps.Vendors {
		if vendor.ID <= 0 {
			return nil, fmt.Errorf("repricing service: own vendor %q has no id", vendor.Name)
		}
		if _, dup := seen[vendor.ID]; dup {
			return nil, fmt.Errorf("repricing service: own vendor %d listed twice", vendor.ID)
		}
		seen[vendor.ID] = struct{}{}
	}

	return &repricingService{
		engine:    engine,
		settings:  deps.Settings,
		snapshots: deps.Snapshots,
		audits:    deps.Audits,
		publisher: deps.Publisher,
		telemetry: telemetry,
		vendors:   append([]OwnVendor(nil), deps.Vendors...),
		logger:    logger,
		workers:   workers,
		clock:     func() time.Time { return clock().UTC() },
		newID:     newID,
	}, nil
}

func (s *repricingService) RepriceProduct(ctx context.Context, cmd RepriceProductCommand) (ProductRunResult, error) {
	cmd.ProductID = strings.TrimSpace(cmd.ProductID)
	if cmd.ProductID == "" {
		return ProductRunResult{}, fmt.Errorf("%w: product id is required", ErrRepricingInvalidInput)
	}
	if strings.TrimSpace(cmd.RunID) == "" {
		cmd.RunID = s.newID()
	}
	return s.runProduct(ctx, cmd)
}

func (s *repricingService) RunBatch(ctx context.Context, cmd RunBatchCommand) (BatchRun, error) {
	run := BatchRun{RunID: s.newID(), SlowRun: cmd.SlowRun, StartedAt: s.clock()}

	productIDs, err := s.batchProducts(ctx, cmd)
	if err != nil {
		return BatchRun{}, err
	}

	results := make([]ProductRunResult, len(productIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for idx, productID := range productIDs {
		idx, productID := idx, productID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := s.runProduct(gctx, RepriceProductCommand{ProductID: productID, RunID: run.RunID, SlowRun: cmd.SlowRun})
			if err != nil {
				result = ProductRunResult{ProductID: productID, Status: domain.ProductRunFailed, Error: err.Error()}
			}
			results[idx] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchRun{}, fmt.Errorf("repricing batch %s: %w", run.RunID, err)
	}

	run.Products = results
	run.FinishedAt = s.clock()
	s.logger.Info("repricing batch finished",
		zap.String("runId", run.RunID),
		zap.Bool("slowRun", run.SlowRun),
		zap.Int("products", len(run.Products)),
		zap.Int("failed", run.Failed()),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return run, nil
}

func (s *repricingService) batchProducts(ctx context.Context, cmd RunBatchCommand) ([]string, error) {
	var ids []string
	if len(cmd.ProductIDs) > 0 {
		ids = cmd.ProductIDs
	} else {
		if s.snapshots == nil {
			return nil, ErrRepricingSnapshotStoreMissing
		}
		limit := cmd.Limit
		if limit <= 0 {
			limit = defaultBatchLimit
		}
		listed, err := s.snapshots.ListProductIDs(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("repricing service: list products: %w", err)
		}
		ids = listed
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

func (s *repricingService) runProduct(ctx context.Context, cmd RepriceProductCommand) (ProductRunResult, error) {
	logger := s.logger.With(zap.String("productId", cmd.ProductID), zap.String("runId", cmd.RunID))

	offers, err := s.loadOffers(ctx, cmd)
	if err != nil {
		return ProductRunResult{}, err
	}
	settings, ownIDs, err := s.loadSettings(ctx, cmd, offers)
	if err != nil {
		return ProductRunResult{}, err
	}

	ctx = requestctx.WithRun(ctx, requestctx.RunInfo{RunID: cmd.RunID, SlowRun: cmd.SlowRun})
	observeCtx, finish := s.telemetry.ObserveProduct(ctx, cmd.ProductID, len(offers))
	decisions, err := s.engine.ComputeDecisions(cmd.ProductID, offers, ownIDs, settings, RunContext{RunID: cmd.RunID, SlowRun: cmd.SlowRun})
	finish(decisions, err)
	if err != nil {
		logger.Error("repricing aborted", zap.Error(err))
		if !cmd.DryRun {
			s.recordAudit(observeCtx, logger, cmd, nil, err.Error())
		}
		return ProductRunResult{}, err
	}

	result := ProductRunResult{
		ProductID: cmd.ProductID,
		Status:    domain.ProductRunSucceeded,
		Decisions: decisions,
	}
	if cmd.DryRun {
		return result, nil
	}

	s.recordAudit(observeCtx, logger, cmd, decisions, "")
	published, err := s.publish(observeCtx, cmd, decisions)
	if err != nil {
		return ProductRunResult{}, err
	}
	result.Published = published

	logger.Info("repricing completed", zap.Int("decisions", len(decisions)), zap.Int("published", published))
	return result, nil
}

func (s *repricingService) loadOffers(ctx context.Context, cmd RepriceProductCommand) ([]Offer, error) {
	if len(cmd.Offers) > 0 {
		return cmd.Offers, nil
	}
	if s.snapshots == nil {
		return nil, fmt.Errorf("%w: no offers supplied for product %s", ErrRepricingInvalidInput, cmd.ProductID)
	}
	snapshot, err := s.snapshots.Get(ctx, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("repricing service: load offers for %s: %w", cmd.ProductID, err)
	}
	return snapshot.Offers, nil
}

// loadSettings resolves the setting of every own vendor listing the product. Stored or inline
// records are laid over the vendor table defaults. Without a vendor table the vendors named by
// the records are the own vendors.
func (s *repricingService) loadSettings(ctx context.Context, cmd RepriceProductCommand, offers []Offer) (map[int64]VendorSetting, []int64, error) {
	records := cmd.Settings
	if len(records) == 0 {
		if s.settings == nil {
			return nil, nil, ErrRepricingStoreMissing
		}
		stored, err := s.settings.ListByProduct(ctx, cmd.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("repricing service: load settings for %s: %w", cmd.ProductID, err)
		}
		records = stored
	}

	defaults := s.vendorDefaults()
	merged := make([]VendorSettingRecord, 0, len(records))
	for _, record := range records {
		base, own := defaults[record.VendorID]
		if len(defaults) > 0 && !own {
			s.logger.Warn("ignoring setting for vendor outside own vendor table",
				zap.String("productId", cmd.ProductID),
				zap.Int64("vendorId", record.VendorID),
			)
			continue
		}
		merged = append(merged, OverlayVendorSettingRecord(base, record))
	}
	settings, err := NormalizeVendorSettings(merged)
	if err != nil {
		return nil, nil, err
	}

	listed := make(map[int64]struct{}, len(offers))
	for _, offer := range offers {
		listed[offer.VendorID] = struct{}{}
	}

	var ownIDs []int64
	if len(defaults) > 0 {
		for vendorID := range defaults {
			if _, ok := listed[vendorID]; ok {
				ownIDs = append(ownIDs, vendorID)
			}
		}
	} else {
		for vendorID := range settings {
			ownIDs = append(ownIDs, vendorID)
		}
	}
	sort.Slice(ownIDs, func(i, j int) bool { return ownIDs[i] < ownIDs[j] })
	return settings, ownIDs, nil
}

// vendorDefaults maps each own vendor to its table defaults.
func (s *repricingService) vendorDefaults() map[int64]VendorSettingRecord {
	defaults := make(map[int64]VendorSettingRecord, len(s.vendors))
	for _, vendor := range s.vendors {
		base := vendor.Defaults
		base.VendorID = vendor.ID
		defaults[vendor.ID] = base
	}
	return defaults
}

// recordAudit appends the decision audit. Store failures are logged and do not fail the product.
func (s *repricingService) recordAudit(ctx context.Context, logger *zap.Logger, cmd RepriceProductCommand, decisions []Decision, failure string) {
	if s.audits == nil {
		return
	}
	audit := DecisionAudit{
		ID:         s.newID(),
		RunID:      cmd.RunID,
		ProductID:  cmd.ProductID,
		SlowRun:    cmd.SlowRun,
		Decisions:  decisions,
		Failure:    failure,
		RecordedAt: s.clock(),
	}
	if err := s.audits.Insert(ctx, audit); err != nil {
		logger.Warn("decision audit insert failed", zap.Error(err))
	}
}

func (s *repricingService) publish(ctx context.Context, cmd RepriceProductCommand, decisions []Decision) (int, error) {
	changes := PriceChanges(decisions)
	if len(changes) == 0 || s.publisher == nil {
		return 0, nil
	}
	msg := PriceChangeMessage{
		RunID:     cmd.RunID,
		ProductID: cmd.ProductID,
		SlowRun:   cmd.SlowRun,
		Changes:   changes,
	}
	if err := s.publisher.PublishPriceChanges(ctx, msg); err != nil {
		return 0, fmt.Errorf("repricing service: publish changes for %s: %w", cmd.ProductID, err)
	}
	return len(changes), nil
}

// PriceChanges extracts the valid CHANGE_* decisions that carry a suggested price.
func PriceChanges(decisions []Decision) []PriceChange {
	var changes []PriceChange
	for _, decision := range decisions {
		if !decision.Valid || !decision.Result.IsChange() || decision.SuggestedPrice == nil {
			continue
		}
		changes = append(changes, PriceChange{
			VendorID:       decision.VendorID(),
			Quantity:       decision.Quantity(),
			Result:         decision.Result,
			ExistingPrice:  decision.ExistingPrice,
			SuggestedPrice: *decision.SuggestedPrice,
			TriggeredBy:    decision.TriggeredBy,
			Rationale:      decision.Rationale,
		})
	}
	return changes
}
