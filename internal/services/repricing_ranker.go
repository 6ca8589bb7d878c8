package services

import (
	"sort"

	"github.com/shopspring/decimal"
)

// boardOffer is an offer priced at a fixed quantity, ready to be ranked.
type boardOffer struct {
	offer     Offer
	kind      VendorKind
	quantity  int
	unitPrice int64
	totalCost int64
	rank      int
}

// landedCost is unitPrice × qty plus standard shipping unless the subtotal reaches the free-shipping threshold.
func landedCost(offer Offer, unitPrice int64, qty int) int64 {
	subtotal := unitPrice * int64(qty)
	if clearsFreeShipping(offer, subtotal) {
		return subtotal
	}
	return subtotal + offer.StandardShipping
}

func clearsFreeShipping(offer Offer, subtotal int64) bool {
	return offer.FreeShippingThreshold > 0 && subtotal >= offer.FreeShippingThreshold
}

// priceOffer prices the offer at qty. A non-nil override replaces the offer's own price breaks.
func priceOffer(offer Offer, kind VendorKind, qty int, override *int64) (boardOffer, bool) {
	unit := int64(0)
	if override != nil {
		unit = *override
	} else {
		pb, ok := applicableBreak(offer, qty)
		if !ok {
			return boardOffer{}, false
		}
		unit = pb.UnitPrice
	}
	return boardOffer{
		offer:     offer,
		kind:      kind,
		quantity:  qty,
		unitPrice: unit,
		totalCost: landedCost(offer, unit, qty),
	}, true
}

// shippingBucket groups shipping times: 1 is two days or less, 2 is three to five days, 3 is slower.
func shippingBucket(days int) int {
	switch {
	case days <= 2:
		return 1
	case days <= 5:
		return 2
	default:
		return 3
	}
}

// challengerWins reports whether a challenger total stays strictly below margin × protected total.
func challengerWins(challenger, protected int64, margin decimal.Decimal) bool {
	return centsDecimal(challenger).LessThan(centsDecimal(protected).Mul(margin))
}

// compareBuyBox orders two priced offers the way the marketplace awards the buy box.
// It returns -1 when a ranks ahead of b, 1 when b ranks ahead of a and 0 for a tie.
//
// A badged offer keeps its place unless the unbadged one is more than 10% cheaper. Between offers
// of equal badge status the faster shipping bucket keeps its place unless the slower one is more
// than 0.5% cheaper; within one bucket a cent decides.
//
// Both margins are strict: a challenger at exactly 90% (or 99.5%) of the protected total does not
// win. This departs from the marketplace's published "at least 10% / 0.5% cheaper" wording and
// matches the solver, which always lands a cent below the margin.
func compareBuyBox(a, b boardOffer) int {
	aBadged, bBadged := a.offer.Badge.Present(), b.offer.Badge.Present()
	if aBadged != bBadged {
		if aBadged {
			if challengerWins(b.totalCost, a.totalCost, badgeMargin) {
				return 1
			}
			return -1
		}
		if challengerWins(a.totalCost, b.totalCost, badgeMargin) {
			return -1
		}
		return 1
	}

	aBucket, bBucket := shippingBucket(a.offer.ShippingTimeDays), shippingBucket(b.offer.ShippingTimeDays)
	switch {
	case aBucket < bBucket:
		if challengerWins(b.totalCost, a.totalCost, bucketMargin) {
			return 1
		}
		return -1
	case aBucket > bBucket:
		if challengerWins(a.totalCost, b.totalCost, bucketMargin) {
			return -1
		}
		return 1
	}

	switch {
	case a.totalCost < b.totalCost:
		return -1
	case a.totalCost > b.totalCost:
		return 1
	}
	return 0
}

// rankBoard sorts the offers into buy-box order and assigns dense ranks, rank 0 being the winner.
// Input order is normalised by vendor id first so equal inputs always rank identically.
func rankBoard(offers []boardOffer) []boardOffer {
	board := append([]boardOffer(nil), offers...)
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].offer.VendorID < board[j].offer.VendorID
	})
	sort.SliceStable(board, func(i, j int) bool {
		return compareBuyBox(board[i], board[j]) < 0
	})
	for idx := range board {
		switch {
		case idx == 0:
			board[idx].rank = 0
		case compareBuyBox(board[idx-1], board[idx]) == 0:
			board[idx].rank = board[idx-1].rank
		default:
			board[idx].rank = board[idx-1].rank + 1
		}
	}
	return board
}

// rankOf returns the dense rank of the vendor on a ranked board, or -1 when absent.
func rankOf(board []boardOffer, vendorID int64) int {
	for _, entry := range board {
		if entry.offer.VendorID == vendorID {
			return entry.rank
		}
	}
	return -1
}

// expectedRank ranks own against others and reports where own lands.
func expectedRank(own boardOffer, others []boardOffer) int {
	board := make([]boardOffer, 0, len(others)+1)
	board = append(board, own)
	for _, other := range others {
		if other.offer.VendorID == own.offer.VendorID {
			continue
		}
		board = append(board, other)
	}
	return rankOf(rankBoard(board), own.offer.VendorID)
}

func boardEntries(board []boardOffer) []BoardEntry {
	entries := make([]BoardEntry, 0, len(board))
	for _, entry := range board {
		entries = append(entries, BoardEntry{
			VendorID:       entry.offer.VendorID,
			VendorName:     entry.offer.VendorName,
			Kind:           entry.kind,
			Quantity:       entry.quantity,
			UnitPrice:      entry.unitPrice,
			TotalCost:      entry.totalCost,
			Badged:         entry.offer.Badge.Present(),
			ShippingBucket: shippingBucket(entry.offer.ShippingTimeDays),
			Rank:           entry.rank,
		})
	}
	return entries
}

// RankOffers ranks the offers at qty and returns the board. Offers without a price for qty are skipped.
func RankOffers(offers []Offer, qty int) []BoardEntry {
	priced := make([]boardOffer, 0, len(offers))
	for _, offer := range offers {
		if entry, ok := priceOffer(offer, VendorKindCompetitor, qty, nil); ok {
			priced = append(priced, entry)
		}
	}
	return boardEntries(rankBoard(priced))
}
