package services

// ApplyQuantityBreakValidity marks which decisions are worth acting on. A decision above
// quantity 1 is invalid when a lower quantity of the same vendor suggests a price that is not
// higher, or when the vendor only moves price breaks together with Q1 and Q1 is not changing
// outside a slow run. Validity is derived from the decisions alone, so repeated application
// gives the same flags. The input slice is not modified.
func ApplyQuantityBreakValidity(decisions []Decision, run RunContext) []Decision {
	result := make([]Decision, len(decisions))
	copy(result, decisions)

	q1Changed := make(map[int64]bool)
	for _, decision := range decisions {
		if decision.Quantity() == 1 && decision.Result.IsChange() {
			q1Changed[decision.VendorID()] = true
		}
	}

	for idx := range result {
		current := result[idx]
		valid := !undercutByLowerQuantity(decisions, current)
		if valid && current.Solution.Setting.SuppressIfQ1NotUpdated && !run.SlowRun && current.Quantity() > 1 {
			valid = q1Changed[current.VendorID()]
		}
		result[idx].Valid = valid
	}
	return result
}

func undercutByLowerQuantity(decisions []Decision, current Decision) bool {
	if current.SuggestedPrice == nil {
		return false
	}
	for _, other := range decisions {
		if other.VendorID() != current.VendorID() || other.Quantity() >= current.Quantity() {
			continue
		}
		if other.SuggestedPrice != nil && *other.SuggestedPrice <= *current.SuggestedPrice {
			return true
		}
	}
	return false
}
