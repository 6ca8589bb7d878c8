package services

import (
	"testing"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

func vendorIDs(offers []Offer) []int64 {
	ids := make([]int64, 0, len(offers))
	for _, offer := range offers {
		ids = append(ids, offer.VendorID)
	}
	return ids
}

func sameIDs(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for idx := range got {
		if got[idx] != want[idx] {
			return false
		}
	}
	return true
}

func TestFilterCompetitors_ExclusionAndInventory(t *testing.T) {
	thin := testOffer(3, q(1, 500))
	thin.Inventory = 1
	thinAllowed := testOffer(4, q(1, 500))
	thinAllowed.Inventory = 1

	setting := testSetting(1)
	setting.ExcludedVendorIDs = []int64{2}
	setting.InventoryCompeteThreshold = 5
	setting.InactiveVendorIDs = []int64{4}

	got := vendorIDs(FilterCompetitors([]Offer{testOffer(2, q(1, 500)), thin, thinAllowed, testOffer(5, q(1, 500))}, setting, 1))
	if want := []int64{4, 5}; !sameIDs(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilterCompetitors_HandlingTimeGroup(t *testing.T) {
	offers := make([]Offer, 0, 3)
	for idx, days := range []int{1, 4, 8} {
		offer := testOffer(int64(idx+2), q(1, 500))
		offer.ShippingTimeDays = days
		offers = append(offers, offer)
	}

	cases := []struct {
		group domain.HandlingTimeGroup
		want  []int64
	}{
		{domain.HandlingTimeAll, []int64{2, 3, 4}},
		{domain.HandlingTimeOneToTwo, []int64{2}},
		{domain.HandlingTimeUpToFive, []int64{2, 3}},
		{domain.HandlingTimeSixOrMore, []int64{4}},
	}
	for _, tc := range cases {
		setting := testSetting(1)
		setting.HandlingTimeGroup = tc.group
		if got := vendorIDs(FilterCompetitors(offers, setting, 1)); !sameIDs(got, tc.want) {
			t.Fatalf("group %s: expected %v, got %v", tc.group, tc.want, got)
		}
	}
}

func TestFilterCompetitors_BadgeOnlyFallsBack(t *testing.T) {
	setting := testSetting(1)
	setting.BadgeIndicator = domain.BadgeIndicatorBadgeOnly

	mixed := []Offer{testOffer(2, q(1, 500)), badged(testOffer(3, q(1, 500)))}
	if got := vendorIDs(FilterCompetitors(mixed, setting, 1)); !sameIDs(got, []int64{3}) {
		t.Fatalf("expected only badged vendor, got %v", got)
	}

	unbadged := []Offer{testOffer(2, q(1, 500)), testOffer(4, q(1, 500))}
	if got := vendorIDs(FilterCompetitors(unbadged, setting, 1)); !sameIDs(got, []int64{2, 4}) {
		t.Fatalf("expected fallback to unfiltered list, got %v", got)
	}
}

func TestFilterCompetitors_ShortExpiryAtExactQuantity(t *testing.T) {
	expiring := testOffer(2, q(1, 500), PriceBreak{MinQty: 3, UnitPrice: 300, PromoDesc: "EXP 11/26"})
	lowercase := testOffer(3, q(1, 500), PriceBreak{MinQty: 3, UnitPrice: 300, PromoDesc: "exp soon"})
	setting := testSetting(1)

	if got := vendorIDs(FilterCompetitors([]Offer{expiring, lowercase}, setting, 3)); !sameIDs(got, []int64{3}) {
		t.Fatalf("expected EXP lot dropped at Q3, got %v", got)
	}
	if got := vendorIDs(FilterCompetitors([]Offer{expiring, lowercase}, setting, 1)); !sameIDs(got, []int64{2, 3}) {
		t.Fatalf("expected Q1 unaffected, got %v", got)
	}
	if got := vendorIDs(FilterCompetitors([]Offer{expiring}, setting, 0)); !sameIDs(got, []int64{2}) {
		t.Fatalf("expected no expiry check without quantity, got %v", got)
	}
}
