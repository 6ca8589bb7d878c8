package services

import (
	"testing"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

func solveAgainst(own Offer, setting VendorSetting, qty int, competitors ...Offer) solverResult {
	board := make([]boardOffer, 0, len(competitors))
	for _, competitor := range competitors {
		board = append(board, mustPrice(competitor, qty))
	}
	return solveBestPrice(own, rankBoard(board), qty, setting)
}

func TestSolveBestPrice_PushesToMaxWithoutCompetitors(t *testing.T) {
	got := solveAgainst(testOffer(1, q(1, 1000)), testSetting(1), 1)
	if got.price == nil || *got.price != 2000 || got.triggeredBy != nil {
		t.Fatalf("expected push to max 2000 without trigger, got %+v", got)
	}
}

func TestSolveBestPrice_NoUsableCeiling(t *testing.T) {
	setting := testSetting(1)
	setting.MaxPrice = 0
	if got := solveAgainst(testOffer(1, q(1, 1000)), setting, 1, testOffer(2, q(1, 1100))); got.price != nil {
		t.Fatalf("expected no price without ceiling, got %d", *got.price)
	}

	setting = testSetting(1)
	setting.FloorPrice = 3000
	if got := solveAgainst(testOffer(1, q(1, 1000)), setting, 1); got.price != nil {
		t.Fatalf("expected no price when ceiling is below floor, got %d", *got.price)
	}
}

func TestSolveBestPrice_Undercuts(t *testing.T) {
	fast := testOffer(2, q(1, 1100))
	slow := testOffer(2, q(1, 1100))
	slow.ShippingTimeDays = 6

	cases := []struct {
		name       string
		own        Offer
		competitor Offer
		qty        int
		mutate     func(*VendorSetting)
		want       int64
	}{
		{name: "penny under same bucket", own: testOffer(1, q(1, 1000)), competitor: fast, qty: 1, want: 1099},
		{name: "unbadged under badged", own: testOffer(1, q(1, 1000)), competitor: badged(testOffer(2, q(1, 1500))), qty: 1, want: 1299},
		{name: "badged over unbadged", own: badged(testOffer(1, q(1, 1000))), competitor: testOffer(2, q(1, 1300)), qty: 1, want: 1500},
		{name: "faster over slower", own: testOffer(1, q(1, 1000)), competitor: slow, qty: 1, want: 1108},
		{name: "quantity rounding", own: testOffer(1, q(1, 1000)), competitor: testOffer(2, q(1, 1000)), qty: 2, want: 999},
		{name: "not cheapest keeps shipping", own: testOffer(1, q(1, 1000)), competitor: fast, qty: 1, mutate: func(s *VendorSetting) { s.NotCheapest = true }, want: 1599},
		{name: "total cost ignores badge", own: testOffer(1, q(1, 1000)), competitor: badged(testOffer(2, q(1, 1500))), qty: 1, mutate: func(s *VendorSetting) { s.Strategy = domain.StrategyTotalCost }, want: 1499},
		{name: "unit strategy", own: testOffer(1, q(1, 1000)), competitor: fast, qty: 1, mutate: func(s *VendorSetting) { s.Strategy = domain.StrategyUnit }, want: 1099},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setting := testSetting(1)
			if tc.mutate != nil {
				tc.mutate(&setting)
			}
			got := solveAgainst(tc.own, setting, tc.qty, tc.competitor)
			if got.price == nil || *got.price != tc.want {
				t.Fatalf("expected %d, got %+v", tc.want, got)
			}
			if got.triggeredBy == nil || *got.triggeredBy != 2 {
				t.Fatalf("expected trigger 2, got %v", got.triggeredBy)
			}
			if *got.price < setting.FloorPrice || *got.price > setting.MaxPrice {
				t.Fatalf("price %d outside [%d, %d]", *got.price, setting.FloorPrice, setting.MaxPrice)
			}

			// Only the buy-box strategy on landed cost promises to outrank the trigger.
			if setting.Strategy != domain.StrategyBuyBox || setting.NotCheapest {
				return
			}
			ownAt, ok := priceOffer(tc.own, VendorKindSelf, tc.qty, got.price)
			if !ok {
				t.Fatalf("own offer could not be priced at %d", *got.price)
			}
			trigger := mustPrice(tc.competitor, tc.qty)
			if compareBuyBox(ownAt, trigger) >= 0 {
				t.Fatalf("price %d (total %d) does not outrank trigger total %d", *got.price, ownAt.totalCost, trigger.totalCost)
			}
			if rank := expectedRank(ownAt, []boardOffer{trigger}); rank != 0 {
				t.Fatalf("expected rank 0 at %d, got %d", *got.price, rank)
			}
		})
	}
}

func TestSolveBestPrice_FreeShippingDecidedByUnitSubtotal(t *testing.T) {
	own := testOffer(1, q(1, 4000), q(3, 3500))
	competitor := testOffer(2, q(1, 4000), q(3, 3334))
	competitor.StandardShipping = 0
	setting := testSetting(1)
	setting.FloorPrice = 0
	setting.MaxPrice = 100000

	// The competitor lands at 10002, so the target 10001 clears the own 10000 threshold while
	// no unit price near 10001/3 does.
	got := solveAgainst(own, setting, 3, competitor)
	if got.price == nil || *got.price != 3167 {
		t.Fatalf("expected 3167 with shipping paid, got %+v", got)
	}
	if got.triggeredBy == nil || *got.triggeredBy != 2 {
		t.Fatalf("expected trigger 2, got %v", got.triggeredBy)
	}
	if total := landedCost(own, *got.price, 3); total != 10001 {
		t.Fatalf("expected landed cost 10001, got %d", total)
	}
}

func TestSolveBestPrice_PrefersFreeShippingWhenUnitSubtotalClears(t *testing.T) {
	own := testOffer(1, q(1, 4000))
	competitor := testOffer(2, q(1, 3400))
	competitor.StandardShipping = 0
	setting := testSetting(1)
	setting.FloorPrice = 0
	setting.MaxPrice = 100000

	// Target 10199 allows 3399 per unit: 10197 clears the threshold and ships free.
	got := solveAgainst(own, setting, 3, competitor)
	if got.price == nil || *got.price != 3399 {
		t.Fatalf("expected 3399 with free shipping, got %+v", got)
	}
}

func TestSolveBestPrice_FreeShippingTarget(t *testing.T) {
	own := testOffer(1, q(1, 2000))
	own.FreeShippingThreshold = 2000
	competitor := testOffer(2, q(1, 2500))
	competitor.FreeShippingThreshold = 2000
	setting := testSetting(1)
	setting.MaxPrice = 3000

	got := solveAgainst(own, setting, 1, competitor)
	if got.price == nil || *got.price != 2499 {
		t.Fatalf("expected 2499 with free shipping, got %+v", got)
	}
}

func TestSolveBestPrice_SkipsCompetitorsBelowFloor(t *testing.T) {
	own := testOffer(1, q(1, 1000))
	tooCheap := testOffer(2, q(1, 300))
	beatable := testOffer(3, q(1, 1200))

	got := solveAgainst(own, testSetting(1), 1, tooCheap, beatable)
	if got.price == nil || *got.price != 1199 || got.triggeredBy == nil || *got.triggeredBy != 3 {
		t.Fatalf("expected 1199 triggered by 3, got %+v", got)
	}

	got = solveAgainst(own, testSetting(1), 1, tooCheap)
	if got.price == nil || *got.price != 2000 || got.triggeredBy != nil {
		t.Fatalf("expected push to max after exhausting competitors, got %+v", got)
	}
}

func TestSolveBestPrice_StaysWithinBoundsAndOutranksTrigger(t *testing.T) {
	own := testOffer(1, q(1, 1000))
	setting := testSetting(1)
	for unit := int64(0); unit <= 3000; unit += 37 {
		for _, competitor := range []Offer{testOffer(2, q(1, unit)), badged(testOffer(2, q(1, unit)))} {
			got := solveAgainst(own, setting, 1, competitor)
			if got.price == nil {
				t.Fatalf("unit %d: expected a price", unit)
			}
			if *got.price < setting.FloorPrice || *got.price > setting.MaxPrice {
				t.Fatalf("unit %d: price %d outside [%d, %d]", unit, *got.price, setting.FloorPrice, setting.MaxPrice)
			}
			if got.triggeredBy == nil {
				continue
			}
			ownAt, _ := priceOffer(own, VendorKindSelf, 1, got.price)
			if compareBuyBox(ownAt, mustPrice(competitor, 1)) >= 0 {
				t.Fatalf("unit %d: price %d does not outrank trigger", unit, *got.price)
			}
			if rank := expectedRank(ownAt, []boardOffer{mustPrice(competitor, 1)}); rank != 0 {
				t.Fatalf("unit %d: expected rank 0 after undercut, got %d", unit, rank)
			}
		}
	}
}
