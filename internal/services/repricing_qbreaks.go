package services

import (
	"sort"
)

// sortedBreaks returns a copy of the offer's price breaks ordered by ascending minimum quantity.
func sortedBreaks(offer Offer) []PriceBreak {
	breaks := append([]PriceBreak(nil), offer.PriceBreaks...)
	sort.SliceStable(breaks, func(i, j int) bool {
		return breaks[i].MinQty < breaks[j].MinQty
	})
	return breaks
}

// hasUnitBreak reports whether the offer prices single units, the minimum for it to compete at all.
func hasUnitBreak(offer Offer) bool {
	for _, pb := range offer.PriceBreaks {
		if pb.MinQty == 1 {
			return true
		}
	}
	return false
}

// breakAt returns the break whose minimum quantity is exactly qty.
func breakAt(offer Offer, qty int) (PriceBreak, bool) {
	for _, pb := range offer.PriceBreaks {
		if pb.MinQty == qty {
			return pb, true
		}
	}
	return PriceBreak{}, false
}

// applicableBreak returns the break a buyer of qty units pays: the highest minimum quantity not above qty.
func applicableBreak(offer Offer, qty int) (PriceBreak, bool) {
	var (
		best  PriceBreak
		found bool
	)
	for _, pb := range offer.PriceBreaks {
		if pb.MinQty > qty || pb.MinQty < 1 {
			continue
		}
		if !found || pb.MinQty > best.MinQty {
			best = pb
			found = true
		}
	}
	return best, found
}

// existingPrice is the own vendor's current price for exactly qty, if it has a break there.
func existingPrice(offer Offer, qty int) *int64 {
	if pb, ok := breakAt(offer, qty); ok {
		return int64Ptr(pb.UnitPrice)
	}
	return nil
}

// AnalyzeQuantityBreaks returns the ascending set of quantities worth competing on.
//
// Quantity 1 is always included when any offer sells single units. A higher break counts only
// when an earlier break of the same offer was strictly more expensive and the offer holds enough
// inventory to sell that many units; otherwise the break is a phantom.
func AnalyzeQuantityBreaks(offers []Offer) []int {
	seen := make(map[int]struct{})
	for _, offer := range offers {
		breaks := sortedBreaks(offer)
		for idx, pb := range breaks {
			if pb.MinQty < 1 {
				continue
			}
			if pb.MinQty == 1 {
				seen[1] = struct{}{}
				continue
			}
			if offer.Inventory < pb.MinQty {
				continue
			}
			if cheaperThanEarlierBreak(breaks[:idx], pb) {
				seen[pb.MinQty] = struct{}{}
			}
		}
	}

	quantities := make([]int, 0, len(seen))
	for qty := range seen {
		quantities = append(quantities, qty)
	}
	sort.Ints(quantities)
	return quantities
}

func cheaperThanEarlierBreak(earlier []PriceBreak, pb PriceBreak) bool {
	for _, prev := range earlier {
		if prev.MinQty < pb.MinQty && prev.UnitPrice > pb.UnitPrice {
			return true
		}
	}
	return false
}
