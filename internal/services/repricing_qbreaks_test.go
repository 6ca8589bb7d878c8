package services

import (
	"reflect"
	"testing"
)

func TestAnalyzeQuantityBreaks_ExcludesPhantomBreaks(t *testing.T) {
	offers := []Offer{
		testOffer(1, q(1, 500), q(2, 600)),
		testOffer(2, q(1, 500), q(3, 400)),
	}

	got := AnalyzeQuantityBreaks(offers)
	if want := []int{1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAnalyzeQuantityBreaks_RequiresInventory(t *testing.T) {
	thin := testOffer(2, q(1, 500), q(3, 400))
	thin.Inventory = 2

	got := AnalyzeQuantityBreaks([]Offer{testOffer(1, q(1, 500)), thin})
	if want := []int{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAnalyzeQuantityBreaks_UnsortedBreaksAndUnion(t *testing.T) {
	offers := []Offer{
		testOffer(1, q(6, 300), q(1, 500), q(4, 450)),
		testOffer(2, q(1, 700), q(2, 650), q(4, 650)),
	}

	got := AnalyzeQuantityBreaks(offers)
	if want := []int{1, 2, 4, 6}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAnalyzeQuantityBreaks_AlwaysIncludesQuantityOne(t *testing.T) {
	outOfStock := testOffer(1, q(1, 500))
	outOfStock.Inventory = 0

	got := AnalyzeQuantityBreaks([]Offer{outOfStock})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected [1], got %v", got)
	}
	if got := AnalyzeQuantityBreaks(nil); len(got) != 0 {
		t.Fatalf("expected no quantities for no offers, got %v", got)
	}
}

func TestApplicableBreakAndExistingPrice(t *testing.T) {
	offer := testOffer(1, q(1, 500), q(5, 400))

	pb, ok := applicableBreak(offer, 3)
	if !ok || pb.UnitPrice != 500 {
		t.Fatalf("expected Q1 price for qty 3, got %+v ok=%v", pb, ok)
	}
	pb, ok = applicableBreak(offer, 7)
	if !ok || pb.UnitPrice != 400 {
		t.Fatalf("expected Q5 price for qty 7, got %+v ok=%v", pb, ok)
	}
	if existingPrice(offer, 3) != nil {
		t.Fatalf("expected no existing price without an exact break")
	}
	if got := existingPrice(offer, 5); got == nil || *got != 400 {
		t.Fatalf("expected existing price 400, got %v", got)
	}
}
