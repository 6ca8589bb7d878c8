package services

import (
	"github.com/shopspring/decimal"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// solverResult is the outcome of the best-price search. A nil price means no usable ceiling
// exists; a nil trigger means the price was pushed to the ceiling.
type solverResult struct {
	price       *int64
	triggeredBy *int64
}

// solveBestPrice walks the ranked competitors and returns the highest unit price that still
// outranks the first competitor it can beat within [floor, ceiling]. Without such a competitor
// the price is pushed to the ceiling.
func solveBestPrice(own Offer, competitors []boardOffer, qty int, setting VendorSetting) solverResult {
	if qty < 1 || setting.MaxPrice <= 0 || setting.MaxPrice < setting.FloorPrice {
		return solverResult{}
	}

	for _, competitor := range competitors {
		if competitor.offer.VendorID == own.VendorID {
			continue
		}
		unit, ok := undercutCompetitor(own, competitor, qty, setting)
		if !ok {
			continue
		}
		vendorID := competitor.offer.VendorID
		return solverResult{price: int64Ptr(unit), triggeredBy: &vendorID}
	}
	return solverResult{price: int64Ptr(setting.MaxPrice)}
}

func undercutCompetitor(own Offer, competitor boardOffer, qty int, setting VendorSetting) (int64, bool) {
	if setting.Strategy == domain.StrategyUnit {
		unit := competitor.unitPrice - 1
		return unit, withinBounds(unit, setting)
	}
	target := undercutTarget(own, competitor, setting.Strategy)
	if target < 0 {
		return 0, false
	}
	return unitForTarget(own, target, qty, setting)
}

// undercutTarget is the highest total cost at which own still ranks ahead of the competitor.
// It inverts compareBuyBox: where own is the challenger the total must stay strictly below the
// margin, where own is the protected side it may rise until the competitor would win.
func undercutTarget(own Offer, competitor boardOffer, strategy domain.PricingStrategy) int64 {
	if strategy == domain.StrategyTotalCost {
		return competitor.totalCost - 1
	}

	total := centsDecimal(competitor.totalCost)
	ownBadged, compBadged := own.Badge.Present(), competitor.offer.Badge.Present()
	switch {
	case compBadged && !ownBadged:
		return strictlyBelow(total.Mul(badgeMargin))
	case ownBadged && !compBadged:
		return floorCents(total.Div(badgeMargin))
	}

	ownBucket := shippingBucket(own.ShippingTimeDays)
	compBucket := shippingBucket(competitor.offer.ShippingTimeDays)
	switch {
	case ownBucket > compBucket:
		return strictlyBelow(total.Mul(bucketMargin))
	case ownBucket < compBucket:
		return floorCents(total.Div(bucketMargin))
	}
	return strictlyBelow(total)
}

// unitForTarget returns the highest unit price whose cost at qty stays within target. Free
// shipping depends on the unit price times qty, so the price with shipping netted out and the
// price without are both tried and each is checked at its own landed cost.
func unitForTarget(own Offer, target int64, qty int, setting VendorSetting) (int64, bool) {
	budgets := []int64{target}
	if !setting.NotCheapest {
		budgets = append(budgets, target-own.StandardShipping)
	}

	var (
		best  int64
		found bool
	)
	for _, budget := range budgets {
		if budget < 0 {
			continue
		}
		unit := floorCents(centsDecimal(budget).Div(decimal.NewFromInt(int64(qty))))
		if candidateCost(own, unit, qty, setting) > target {
			continue
		}
		if !found || unit > best {
			best, found = unit, true
		}
	}
	if !found {
		return 0, false
	}
	return best, withinBounds(best, setting)
}

func candidateCost(own Offer, unit int64, qty int, setting VendorSetting) int64 {
	if setting.NotCheapest {
		return unit * int64(qty)
	}
	return landedCost(own, unit, qty)
}

func withinBounds(unit int64, setting VendorSetting) bool {
	return unit >= 0 && unit >= setting.FloorPrice && unit <= setting.MaxPrice
}
