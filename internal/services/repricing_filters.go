package services

import (
	"strings"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

const shortExpiryMarker = "EXP"

// competitorFilter narrows a competitor list for one vendor setting at one quantity.
type competitorFilter func(offers []Offer, setting VendorSetting, qty int) []Offer

// competitorFilters run in this order; later steps see the output of earlier ones.
var competitorFilters = []competitorFilter{
	excludeListedVendors,
	dropThinInventory,
	keepHandlingTimeGroup,
	keepBadgedWhenRequired,
	dropShortExpiry,
}

// FilterCompetitors applies the vendor setting's competitor filters. A qty of zero skips the
// short-expiry check.
func FilterCompetitors(offers []Offer, setting VendorSetting, qty int) []Offer {
	filtered := append([]Offer(nil), offers...)
	for _, filter := range competitorFilters {
		filtered = filter(filtered, setting, qty)
	}
	return filtered
}

func keepOffers(offers []Offer, keep func(Offer) bool) []Offer {
	result := make([]Offer, 0, len(offers))
	for _, offer := range offers {
		if keep(offer) {
			result = append(result, offer)
		}
	}
	return result
}

func containsVendor(ids []int64, vendorID int64) bool {
	for _, id := range ids {
		if id == vendorID {
			return true
		}
	}
	return false
}

func excludeListedVendors(offers []Offer, setting VendorSetting, _ int) []Offer {
	if len(setting.ExcludedVendorIDs) == 0 {
		return offers
	}
	return keepOffers(offers, func(offer Offer) bool {
		return !containsVendor(setting.ExcludedVendorIDs, offer.VendorID)
	})
}

func dropThinInventory(offers []Offer, setting VendorSetting, _ int) []Offer {
	if setting.InventoryCompeteThreshold <= 0 {
		return offers
	}
	return keepOffers(offers, func(offer Offer) bool {
		if containsVendor(setting.InactiveVendorIDs, offer.VendorID) {
			return true
		}
		return offer.Inventory >= setting.InventoryCompeteThreshold
	})
}

func inHandlingTimeGroup(group domain.HandlingTimeGroup, days int) bool {
	switch group {
	case domain.HandlingTimeOneToTwo:
		return days <= 2
	case domain.HandlingTimeUpToFive:
		return days <= 5
	case domain.HandlingTimeSixOrMore:
		return days >= 6
	default:
		return true
	}
}

func keepHandlingTimeGroup(offers []Offer, setting VendorSetting, _ int) []Offer {
	if setting.HandlingTimeGroup == "" || setting.HandlingTimeGroup == domain.HandlingTimeAll {
		return offers
	}
	return keepOffers(offers, func(offer Offer) bool {
		return inHandlingTimeGroup(setting.HandlingTimeGroup, offer.ShippingTimeDays)
	})
}

// keepBadgedWhenRequired never leaves the vendor competing against nobody: an empty badged set
// falls back to the unfiltered list.
func keepBadgedWhenRequired(offers []Offer, setting VendorSetting, _ int) []Offer {
	if setting.BadgeIndicator != domain.BadgeIndicatorBadgeOnly {
		return offers
	}
	badged := keepOffers(offers, func(offer Offer) bool {
		return offer.Badge.Present()
	})
	if len(badged) == 0 {
		return offers
	}
	return badged
}

func hasShortExpiryAt(offer Offer, qty int) bool {
	pb, ok := breakAt(offer, qty)
	return ok && strings.Contains(pb.PromoDesc, shortExpiryMarker)
}

func dropShortExpiry(offers []Offer, _ VendorSetting, qty int) []Offer {
	if qty <= 0 {
		return offers
	}
	return keepOffers(offers, func(offer Offer) bool {
		return !hasShortExpiryAt(offer, qty)
	})
}
