package firestore

import (
	"time"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

type vendorSettingDocument struct {
	Setting   domain.VendorSettingRecord `firestore:"setting"`
	UpdatedAt time.Time                  `firestore:"updatedAt"`
}

type priceBreakDocument struct {
	MinQty    int    `firestore:"minQty"`
	UnitPrice int64  `firestore:"unitPrice"`
	PromoDesc string `firestore:"promoDesc,omitempty"`
}

type offerDocument struct {
	VendorID              int64                `firestore:"vendorId"`
	VendorName            string               `firestore:"vendorName"`
	InStock               bool                 `firestore:"inStock"`
	StandardShipping      int64                `firestore:"standardShipping"`
	ShippingTimeDays      int                  `firestore:"shippingTimeDays"`
	BadgeID               int64                `firestore:"badgeId"`
	BadgeName             string               `firestore:"badgeName"`
	PriceBreaks           []priceBreakDocument `firestore:"priceBreaks"`
	FreeShippingGap       int64                `firestore:"freeShippingGap"`
	FreeShippingThreshold int64                `firestore:"freeShippingThreshold"`
	Inventory             int                  `firestore:"inventory"`
}

type offerSnapshotDocument struct {
	ProductID  string          `firestore:"productId"`
	Offers     []offerDocument `firestore:"offers"`
	CapturedAt time.Time       `firestore:"capturedAt"`
}

// decisionDocument keeps the outcome of a decision without its board, which is only useful in memory.
type decisionDocument struct {
	VendorID        int64  `firestore:"vendorId"`
	Quantity        int    `firestore:"quantity"`
	CompeteQuantity int    `firestore:"competeQuantity"`
	Result          string `firestore:"result"`
	ExistingPrice   *int64 `firestore:"existingPrice"`
	SuggestedPrice  *int64 `firestore:"suggestedPrice"`
	BestPrice       *int64 `firestore:"bestPrice"`
	BuyBoxRank      int    `firestore:"buyBoxRank"`
	TriggeredBy     *int64 `firestore:"triggeredBy"`
	Rationale       string `firestore:"rationale"`
	Valid           bool   `firestore:"valid"`
}

type decisionAuditDocument struct {
	RunID      string             `firestore:"runId"`
	ProductID  string             `firestore:"productId"`
	SlowRun    bool               `firestore:"slowRun"`
	Decisions  []decisionDocument `firestore:"decisions"`
	Failure    string             `firestore:"failure,omitempty"`
	RecordedAt time.Time          `firestore:"recordedAt"`
}

func offerSnapshotToDocument(snapshot domain.OfferSnapshot) offerSnapshotDocument {
	doc := offerSnapshotDocument{
		ProductID:  snapshot.ProductID,
		Offers:     make([]offerDocument, 0, len(snapshot.Offers)),
		CapturedAt: snapshot.CapturedAt.UTC(),
	}
	for _, offer := range snapshot.Offers {
		breaks := make([]priceBreakDocument, 0, len(offer.PriceBreaks))
		for _, pb := range offer.PriceBreaks {
			breaks = append(breaks, priceBreakDocument{MinQty: pb.MinQty, UnitPrice: pb.UnitPrice, PromoDesc: pb.PromoDesc})
		}
		doc.Offers = append(doc.Offers, offerDocument{
			VendorID:              offer.VendorID,
			VendorName:            offer.VendorName,
			InStock:               offer.InStock,
			StandardShipping:      offer.StandardShipping,
			ShippingTimeDays:      offer.ShippingTimeDays,
			BadgeID:               offer.Badge.ID,
			BadgeName:             offer.Badge.Name,
			PriceBreaks:           breaks,
			FreeShippingGap:       offer.FreeShippingGap,
			FreeShippingThreshold: offer.FreeShippingThreshold,
			Inventory:             offer.Inventory,
		})
	}
	return doc
}

func offerSnapshotFromDocument(doc offerSnapshotDocument) domain.OfferSnapshot {
	snapshot := domain.OfferSnapshot{
		ProductID:  doc.ProductID,
		Offers:     make([]domain.Offer, 0, len(doc.Offers)),
		CapturedAt: doc.CapturedAt,
	}
	for _, offer := range doc.Offers {
		breaks := make([]domain.PriceBreak, 0, len(offer.PriceBreaks))
		for _, pb := range offer.PriceBreaks {
			breaks = append(breaks, domain.PriceBreak{MinQty: pb.MinQty, UnitPrice: pb.UnitPrice, PromoDesc: pb.PromoDesc})
		}
		snapshot.Offers = append(snapshot.Offers, domain.Offer{
			VendorID:              offer.VendorID,
			VendorName:            offer.VendorName,
			InStock:               offer.InStock,
			StandardShipping:      offer.StandardShipping,
			ShippingTimeDays:      offer.ShippingTimeDays,
			Badge:                 domain.Badge{ID: offer.BadgeID, Name: offer.BadgeName},
			PriceBreaks:           breaks,
			FreeShippingGap:       offer.FreeShippingGap,
			FreeShippingThreshold: offer.FreeShippingThreshold,
			Inventory:             offer.Inventory,
		})
	}
	return snapshot
}

func decisionAuditToDocument(audit domain.DecisionAudit) decisionAuditDocument {
	doc := decisionAuditDocument{
		RunID:      audit.RunID,
		ProductID:  audit.ProductID,
		SlowRun:    audit.SlowRun,
		Decisions:  make([]decisionDocument, 0, len(audit.Decisions)),
		Failure:    audit.Failure,
		RecordedAt: audit.RecordedAt.UTC(),
	}
	for _, decision := range audit.Decisions {
		doc.Decisions = append(doc.Decisions, decisionDocument{
			VendorID:        decision.VendorID(),
			Quantity:        decision.Quantity(),
			CompeteQuantity: decision.Solution.CompeteQuantity,
			Result:          string(decision.Result),
			ExistingPrice:   decision.ExistingPrice,
			SuggestedPrice:  decision.SuggestedPrice,
			BestPrice:       decision.Solution.BestPrice,
			BuyBoxRank:      decision.Solution.BuyBoxRank,
			TriggeredBy:     decision.TriggeredBy,
			Rationale:       decision.Rationale,
			Valid:           decision.Valid,
		})
	}
	return doc
}

func decisionAuditFromDocument(id string, doc decisionAuditDocument) domain.DecisionAudit {
	audit := domain.DecisionAudit{
		ID:         id,
		RunID:      doc.RunID,
		ProductID:  doc.ProductID,
		SlowRun:    doc.SlowRun,
		Decisions:  make([]domain.Decision, 0, len(doc.Decisions)),
		Failure:    doc.Failure,
		RecordedAt: doc.RecordedAt,
	}
	for _, d := range doc.Decisions {
		audit.Decisions = append(audit.Decisions, domain.Decision{
			Solution: domain.CandidateSolution{
				ProductID:       doc.ProductID,
				Quantity:        d.Quantity,
				CompeteQuantity: d.CompeteQuantity,
				Vendor:          domain.Offer{VendorID: d.VendorID},
				BestPrice:       d.BestPrice,
				BuyBoxRank:      d.BuyBoxRank,
				TriggeredBy:     d.TriggeredBy,
			},
			Result:         domain.ResultCode(d.Result),
			ExistingPrice:  d.ExistingPrice,
			SuggestedPrice: d.SuggestedPrice,
			Rationale:      d.Rationale,
			TriggeredBy:    d.TriggeredBy,
			Valid:          d.Valid,
		})
	}
	return audit
}
