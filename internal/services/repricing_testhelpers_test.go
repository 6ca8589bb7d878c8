package services

import (
	"fmt"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

func testOffer(vendorID int64, breaks ...PriceBreak) Offer {
	return Offer{
		VendorID:              vendorID,
		VendorName:            fmt.Sprintf("vendor-%d", vendorID),
		InStock:               true,
		StandardShipping:      500,
		ShippingTimeDays:      2,
		FreeShippingThreshold: 10000,
		Inventory:             100,
		PriceBreaks:           breaks,
	}
}

func q(minQty int, unit int64) PriceBreak {
	return PriceBreak{MinQty: minQty, UnitPrice: unit}
}

func testSetting(vendorID int64) VendorSetting {
	return VendorSetting{
		VendorID:          vendorID,
		Enabled:           true,
		FloorPrice:        500,
		MaxPrice:          2000,
		UpDown:            domain.UpDownBoth,
		BadgeIndicator:    domain.BadgeIndicatorAll,
		HandlingTimeGroup: domain.HandlingTimeAll,
		Strategy:          domain.StrategyBuyBox,
	}
}

func badged(offer Offer) Offer {
	offer.Badge = Badge{ID: 7, Name: "Authorized"}
	return offer
}

func priced(offer Offer, total int64) boardOffer {
	return boardOffer{offer: offer, kind: VendorKindCompetitor, quantity: 1, totalCost: total}
}

func mustPrice(offer Offer, qty int) boardOffer {
	entry, ok := priceOffer(offer, VendorKindCompetitor, qty, nil)
	if !ok {
		panic(fmt.Sprintf("offer %d has no price at %d", offer.VendorID, qty))
	}
	return entry
}

func findDecision(decisions []Decision, vendorID int64, qty int) (Decision, bool) {
	for _, decision := range decisions {
		if decision.VendorID() == vendorID && decision.Quantity() == qty {
			return decision, true
		}
	}
	return Decision{}, false
}
