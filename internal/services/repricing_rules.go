package services

import (
	"fmt"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// evaluation is what every decision rule sees for one candidate.
type evaluation struct {
	solution    CandidateSolution
	existing    *int64
	suggested   *int64
	currentRank int
}

func (ev evaluation) decide(result ResultCode, rationale string) Decision {
	return Decision{
		Solution:       ev.solution,
		Result:         result,
		ExistingPrice:  ev.existing,
		SuggestedPrice: ev.suggested,
		Rationale:      rationale,
		TriggeredBy:    ev.solution.TriggeredBy,
		Valid:          true,
	}
}

// decisionRule returns a decision when it applies to the evaluation.
type decisionRule func(ev evaluation) (Decision, bool)

// decisionRules are evaluated in order; the first rule that applies decides.
var decisionRules = []decisionRule{
	ruleNoCompetitivePrice,
	ruleDisabled,
	ruleCompeteOnPriceBreakOnly,
	ruleSuppressPriceBreak,
	ruleOwnUnavailable,
	ruleOwnShortExpiry,
	ruleDirectionRestricted,
	ruleRankBelowBuyBox,
	ruleKeepPosition,
	ruleUnchangedPrice,
	ruleSisterWinning,
	ruleSimulatedSisterWinning,
	ruleNewPrice,
	rulePriceDown,
	rulePriceUp,
}

// decideCandidate runs the rule chain. A chain that matches nothing yields ERROR.
func decideCandidate(ev evaluation) Decision {
	for _, rule := range decisionRules {
		if decision, ok := rule(ev); ok {
			return decision
		}
	}
	return ev.decide(domain.ResultError, "no rule matched the candidate")
}

func ruleNoCompetitivePrice(ev evaluation) (Decision, bool) {
	if ev.solution.BestPrice != nil {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreFloor, "hit the floor price"), true
}

func ruleDisabled(ev evaluation) (Decision, bool) {
	if ev.solution.Setting.Enabled {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreSettings, "repricing disabled for vendor"), true
}

func ruleCompeteOnPriceBreakOnly(ev evaluation) (Decision, bool) {
	if !ev.solution.Setting.CompeteOnPriceBreakOnly || ev.solution.Quantity != 1 {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreSettings, "compete on price break only"), true
}

func ruleSuppressPriceBreak(ev evaluation) (Decision, bool) {
	if !ev.solution.Setting.SuppressPriceBreak || ev.solution.Quantity <= 1 {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreSettings, "price breaks suppressed"), true
}

func ruleOwnUnavailable(ev evaluation) (Decision, bool) {
	own := ev.solution.Vendor
	qty := ev.solution.Quantity
	threshold := ev.solution.Setting.OwnVendorInventoryThreshold
	switch {
	case !own.InStock, own.Inventory < qty:
		return ev.decide(domain.ResultIgnoreSettings, fmt.Sprintf("can't compete with quantity 0 at Q%d", qty)), true
	case threshold > 0 && own.Inventory < threshold:
		return ev.decide(domain.ResultIgnoreSettings, fmt.Sprintf("inventory %d below own threshold %d", own.Inventory, threshold)), true
	}
	return Decision{}, false
}

func ruleOwnShortExpiry(ev evaluation) (Decision, bool) {
	if !hasShortExpiryAt(ev.solution.Vendor, ev.solution.Quantity) {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreShortExpiry, fmt.Sprintf("own Q%d lot is short expiry", ev.solution.Quantity)), true
}

func ruleDirectionRestricted(ev evaluation) (Decision, bool) {
	if ev.existing == nil {
		return Decision{}, false
	}
	suggested, prior := *ev.suggested, *ev.existing
	switch ev.solution.Setting.UpDown {
	case domain.UpDownUp:
		if suggested < prior {
			return ev.decide(domain.ResultIgnoreSettings, "only price up"), true
		}
	case domain.UpDownDown:
		if suggested > prior {
			return ev.decide(domain.ResultIgnoreSettings, "only price down"), true
		}
	}
	return Decision{}, false
}

func ruleRankBelowBuyBox(ev evaluation) (Decision, bool) {
	if ev.solution.Setting.FloorCompeteWithNext || ev.solution.BuyBoxRank <= 0 {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreFloor, fmt.Sprintf("best price only reaches buy box rank %d", ev.solution.BuyBoxRank)), true
}

func ruleKeepPosition(ev evaluation) (Decision, bool) {
	if !ev.solution.Setting.KeepPosition || ev.currentRank < 0 || ev.currentRank >= ev.solution.BuyBoxRank {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreSettings, fmt.Sprintf("keep position at rank %d", ev.currentRank)), true
}

func ruleUnchangedPrice(ev evaluation) (Decision, bool) {
	if ev.existing == nil || *ev.existing != *ev.suggested {
		return Decision{}, false
	}
	if ev.solution.BuyBoxRank == 0 {
		return ev.decide(domain.ResultIgnoreLowest, "already winning at "+formatCents(*ev.existing)), true
	}
	return ev.decide(domain.ResultIgnoreFloor, "price unchanged at "+formatCents(*ev.existing)), true
}

func leaderOfKind(view []BoardEntry, kind VendorKind) (BoardEntry, bool) {
	for _, entry := range view {
		if entry.Rank == 0 && entry.Kind == kind {
			return entry, true
		}
	}
	return BoardEntry{}, false
}

func ruleSisterWinning(ev evaluation) (Decision, bool) {
	sister, ok := leaderOfKind(ev.solution.VendorView, VendorKindSister)
	if !ok {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreSisterLow, fmt.Sprintf("sister vendor %d holds the buy box", sister.VendorID)), true
}

func ruleSimulatedSisterWinning(ev evaluation) (Decision, bool) {
	sister, ok := leaderOfKind(ev.solution.VendorView, VendorKindSimulated)
	if !ok {
		return Decision{}, false
	}
	return ev.decide(domain.ResultIgnoreSettings, fmt.Sprintf("listed sister vendor %d holds the buy box", sister.VendorID)), true
}

func ruleNewPrice(ev evaluation) (Decision, bool) {
	if ev.existing != nil {
		return Decision{}, false
	}
	return ev.decide(domain.ResultChangeNew, fmt.Sprintf("new Q%d price %s", ev.solution.Quantity, formatCents(*ev.suggested))), true
}

func rulePriceDown(ev evaluation) (Decision, bool) {
	if *ev.suggested >= *ev.existing {
		return Decision{}, false
	}
	return ev.decide(domain.ResultChangeDown, fmt.Sprintf("undercut vendor %s: %s -> %s",
		formatVendor(ev.solution.TriggeredBy), formatCents(*ev.existing), formatCents(*ev.suggested))), true
}

func rulePriceUp(ev evaluation) (Decision, bool) {
	if *ev.suggested <= *ev.existing {
		return Decision{}, false
	}
	if ev.solution.TriggeredBy == nil {
		return ev.decide(domain.ResultChangeUp, fmt.Sprintf("pushed to max: %s -> %s",
			formatCents(*ev.existing), formatCents(*ev.suggested))), true
	}
	return ev.decide(domain.ResultChangeUp, fmt.Sprintf("undercut vendor %d: %s -> %s",
		*ev.solution.TriggeredBy, formatCents(*ev.existing), formatCents(*ev.suggested))), true
}

func formatVendor(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

// dampen limits how far the suggested price moves away from the prior price in one run.
// A downward limit that would cross the floor is dropped and the solved price used as is.
func dampen(best int64, prior *int64, own Offer, setting VendorSetting) int64 {
	if prior == nil {
		return best
	}
	badged := own.Badge.Present()
	switch {
	case best > *prior:
		pct := setting.UpPercent
		if badged && setting.UpPercentBadged > 0 {
			pct = setting.UpPercentBadged
		}
		if pct <= 0 {
			return best
		}
		suggested := best
		if limit := floorCents(scaleByPercent(*prior, pct)); limit < suggested {
			suggested = limit
		}
		if setting.MaxPrice > 0 && suggested > setting.MaxPrice {
			suggested = setting.MaxPrice
		}
		return suggested
	case best < *prior:
		pct := setting.DownPercent
		if badged && setting.DownPercentBadged > 0 {
			pct = setting.DownPercentBadged
		}
		if pct <= 0 {
			return best
		}
		lower := ceilCents(scaleByPercent(*prior, -pct))
		if lower < setting.FloorPrice {
			return best
		}
		if lower > best {
			return lower
		}
		return best
	}
	return best
}
