package services

// market is the sanitized offer set of one product with own vendors identified.
type market struct {
	productID string
	offers    []Offer
	own       map[int64]struct{}
}

func (m market) isOwn(vendorID int64) bool {
	_, ok := m.own[vendorID]
	return ok
}

// kindFor tags an offer relative to the vendor being priced.
func (m market) kindFor(vendorID int64, self VendorSetting) VendorKind {
	switch {
	case vendorID == self.VendorID:
		return VendorKindSelf
	case m.isOwn(vendorID):
		return VendorKindSister
	case containsVendor(self.SisterVendorIDs, vendorID):
		return VendorKindSimulated
	default:
		return VendorKindCompetitor
	}
}

// competitorsFor lists the offers the vendor competes against; sisters join only when the
// setting competes with all vendors.
func (m market) competitorsFor(setting VendorSetting) []Offer {
	return keepOffers(m.offers, func(offer Offer) bool {
		if offer.VendorID == setting.VendorID {
			return false
		}
		return setting.CompeteWithAllVendors || !m.isOwn(offer.VendorID)
	})
}

// priceAll prices the offers at qty, tagging each from the vendor's perspective. The self offer
// takes the override price when one is given.
func (m market) priceAll(offers []Offer, qty int, setting VendorSetting, selfPrice *int64) []boardOffer {
	priced := make([]boardOffer, 0, len(offers))
	for _, offer := range offers {
		var override *int64
		if offer.VendorID == setting.VendorID {
			override = selfPrice
		}
		entry, ok := priceOffer(offer, m.kindFor(offer.VendorID, setting), qty, override)
		if !ok {
			continue
		}
		priced = append(priced, entry)
	}
	return priced
}

// competeQuantity is the quantity the vendor is measured at when pricing qty.
func competeQuantity(qty int, setting VendorSetting) int {
	if qty == 2 && setting.CompareQ2WithQ1 {
		return 1
	}
	return qty
}

// buildSolution solves one own vendor at one quantity.
func (m market) buildSolution(qty int, own Offer, setting VendorSetting) CandidateSolution {
	compete := competeQuantity(qty, setting)
	competitors := m.competitorsFor(setting)

	ranked := rankBoard(m.priceAll(FilterCompetitors(competitors, setting, compete), compete, setting, nil))
	solved := solveBestPrice(own, ranked, compete, setting)

	rank := -1
	if solved.price != nil {
		ownAt, _ := priceOffer(own, VendorKindSelf, compete, solved.price)
		rank = expectedRank(ownAt, m.priceAll(competitors, compete, setting, nil))
	}

	others := keepOffers(m.offers, func(offer Offer) bool { return offer.VendorID != own.VendorID })

	return CandidateSolution{
		ProductID:       m.productID,
		Quantity:        qty,
		CompeteQuantity: compete,
		Vendor:          own,
		BestPrice:       solved.price,
		BuyBoxRank:      rank,
		Setting:         setting,
		Board:           boardEntries(rankBoard(m.priceAll(m.offers, qty, setting, solved.price))),
		VendorView:      boardEntries(rankBoard(m.priceAll(others, compete, setting, nil))),
		TriggeredBy:     solved.triggeredBy,
	}
}

// currentRank is the rank the own offer holds at its existing price against the same
// competitors used for the expected rank, or -1 without an existing price.
func (m market) currentRank(solution CandidateSolution, existing *int64) int {
	if existing == nil {
		return -1
	}
	own, ok := priceOffer(solution.Vendor, VendorKindSelf, solution.CompeteQuantity, existing)
	if !ok {
		return -1
	}
	competitors := m.competitorsFor(solution.Setting)
	return expectedRank(own, m.priceAll(competitors, solution.CompeteQuantity, solution.Setting, nil))
}
