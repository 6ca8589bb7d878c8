package services

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// RepricingEngine computes buy-box decisions for one product at a time. It holds no mutable
// state and is safe for concurrent use.
type RepricingEngine struct {
	logger *zap.Logger
	strict bool
}

type RepricingEngineDeps struct {
	Logger *zap.Logger
	// StrictMode turns ERROR decisions into ErrRepricingLogicDefect.
	StrictMode bool
}

func NewRepricingEngine(deps RepricingEngineDeps) *RepricingEngine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepricingEngine{logger: logger, strict: deps.StrictMode}
}

// ComputeDecisions runs a default engine over the inputs.
func ComputeDecisions(productID string, offers []Offer, ownVendorIDs []int64, settings map[int64]VendorSetting, run RunContext) ([]Decision, error) {
	return NewRepricingEngine(RepricingEngineDeps{}).ComputeDecisions(productID, offers, ownVendorIDs, settings, run)
}

// ComputeDecisions returns one decision per (quantity, own vendor) ordered by quantity then
// vendor id. A missing setting for any own vendor, or a price decrease without a triggering
// vendor, aborts the whole product.
func (e *RepricingEngine) ComputeDecisions(productID string, offers []Offer, ownVendorIDs []int64, settings map[int64]VendorSetting, run RunContext) ([]Decision, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id is required", ErrRepricingInvalidInput)
	}

	own := make(map[int64]struct{}, len(ownVendorIDs))
	for _, vendorID := range ownVendorIDs {
		if _, ok := settings[vendorID]; !ok {
			return nil, fmt.Errorf("%w: product %s vendor %d", ErrRepricingMissingVendorSetting, productID, vendorID)
		}
		own[vendorID] = struct{}{}
	}

	m := market{productID: productID, offers: e.sanitizeOffers(productID, offers), own: own}

	var ownOffers []Offer
	for _, offer := range m.offers {
		if m.isOwn(offer.VendorID) {
			ownOffers = append(ownOffers, offer)
		}
	}

	var decisions []Decision
	for _, qty := range AnalyzeQuantityBreaks(m.offers) {
		for _, offer := range ownOffers {
			setting := settings[offer.VendorID]
			decision, err := e.decide(m, qty, offer, setting)
			if err != nil {
				return nil, err
			}
			decisions = append(decisions, decision)
		}
	}

	decisions = ApplyQuantityBreakValidity(decisions, run)
	for _, decision := range decisions {
		e.logger.Debug("repricing decision",
			zap.String("productId", productID),
			zap.String("runId", run.RunID),
			zap.Int64("vendorId", decision.VendorID()),
			zap.Int("quantity", decision.Quantity()),
			zap.String("result", string(decision.Result)),
			zap.String("suggestedPrice", formatOptionalCents(decision.SuggestedPrice)),
			zap.Bool("valid", decision.Valid),
		)
	}
	return decisions, nil
}

func (e *RepricingEngine) decide(m market, qty int, own Offer, setting VendorSetting) (Decision, error) {
	solution := m.buildSolution(qty, own, setting)
	existing := existingPrice(own, qty)

	ev := evaluation{solution: solution, existing: existing, currentRank: -1}
	if solution.BestPrice != nil {
		ev.suggested = int64Ptr(dampen(*solution.BestPrice, existing, own, setting))
	}
	if setting.KeepPosition {
		ev.currentRank = m.currentRank(solution, existing)
	}

	decision := decideCandidate(ev)
	switch {
	case decision.Result == domain.ResultChangeDown && decision.TriggeredBy == nil:
		return Decision{}, fmt.Errorf("%w: product %s vendor %d Q%d", ErrRepricingMissingTrigger, m.productID, own.VendorID, qty)
	case decision.Result == domain.ResultError:
		if e.strict {
			return Decision{}, fmt.Errorf("%w: product %s vendor %d Q%d", ErrRepricingLogicDefect, m.productID, own.VendorID, qty)
		}
		e.logger.Error("repricing rule chain fell through",
			zap.String("productId", m.productID),
			zap.Int64("vendorId", own.VendorID),
			zap.Int("quantity", qty),
		)
	}
	return decision, nil
}

// sanitizeOffers drops offers that cannot compete and orders the rest by vendor id. Duplicate
// vendor ids keep the first occurrence.
func (e *RepricingEngine) sanitizeOffers(productID string, offers []Offer) []Offer {
	seen := make(map[int64]struct{}, len(offers))
	result := make([]Offer, 0, len(offers))
	for _, offer := range offers {
		reason := ""
		switch {
		case offer.VendorID <= 0:
			reason = "missing vendor id"
		case !hasUnitBreak(offer):
			reason = "no quantity 1 price break"
		}
		if _, dup := seen[offer.VendorID]; reason == "" && dup {
			reason = "duplicate vendor offer"
		}
		if reason != "" {
			e.logger.Warn("dropping offer",
				zap.String("productId", productID),
				zap.Int64("vendorId", offer.VendorID),
				zap.String("reason", reason),
			)
			continue
		}
		seen[offer.VendorID] = struct{}{}
		offer.PriceBreaks = sortedBreaks(offer)
		result = append(result, offer)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].VendorID < result[j].VendorID
	})
	return result
}
