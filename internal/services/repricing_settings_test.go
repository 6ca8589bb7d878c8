package services

import (
	"errors"
	"reflect"
	"testing"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeVendorSetting_Defaults(t *testing.T) {
	setting, err := NormalizeVendorSetting(VendorSettingRecord{VendorID: 17, MaxPrice: int64Ptr(2500)})
	if err != nil {
		t.Fatalf("NormalizeVendorSetting: %v", err)
	}
	if !setting.Enabled || setting.UpDown != domain.UpDownBoth || setting.Strategy != domain.StrategyBuyBox {
		t.Fatalf("unexpected defaults %+v", setting)
	}
	if setting.BadgeIndicator != domain.BadgeIndicatorAll || setting.HandlingTimeGroup != domain.HandlingTimeAll {
		t.Fatalf("unexpected filter defaults %+v", setting)
	}
	if setting.MaxPrice != 2500 || setting.FloorPrice != 0 {
		t.Fatalf("unexpected prices %+v", setting)
	}
}

func TestNormalizeVendorSetting_ParsesRecord(t *testing.T) {
	record := VendorSettingRecord{
		VendorID:          17,
		Enabled:           boolPtr(false),
		UpDown:            "up",
		HandlingTimeGroup: "<= 5",
		BadgeIndicator:    "badge_only",
		Strategy:          "total_cost",
		SisterVendorIDs:   " 20, 21,,22 ",
		UpPercent:         floatPtr(2.5),
		ExcludedVendorIDs: []int64{9},
	}

	setting, err := NormalizeVendorSetting(record)
	if err != nil {
		t.Fatalf("NormalizeVendorSetting: %v", err)
	}
	if setting.Enabled || setting.UpDown != domain.UpDownUp || setting.HandlingTimeGroup != domain.HandlingTimeUpToFive {
		t.Fatalf("unexpected parse result %+v", setting)
	}
	if setting.BadgeIndicator != domain.BadgeIndicatorBadgeOnly || setting.Strategy != domain.StrategyTotalCost {
		t.Fatalf("unexpected enums %+v", setting)
	}
	if !reflect.DeepEqual(setting.SisterVendorIDs, []int64{20, 21, 22}) {
		t.Fatalf("unexpected sisters %v", setting.SisterVendorIDs)
	}

	setting.ExcludedVendorIDs[0] = 99
	if record.ExcludedVendorIDs[0] != 9 {
		t.Fatalf("expected record slices to be copied")
	}
}

func TestNormalizeVendorSetting_Rejects(t *testing.T) {
	cases := map[string]VendorSettingRecord{
		"missing vendor":  {},
		"unknown upDown":  {VendorID: 1, UpDown: "SIDEWAYS"},
		"unknown group":   {VendorID: 1, HandlingTimeGroup: "3-4"},
		"bad sister list": {VendorID: 1, SisterVendorIDs: "12,abc"},
		"negative floor":  {VendorID: 1, FloorPrice: int64Ptr(-1)},
		"percent range":   {VendorID: 1, DownPercent: floatPtr(120)},
	}
	for name, record := range cases {
		if _, err := NormalizeVendorSetting(record); !errors.Is(err, ErrRepricingInvalidInput) {
			t.Fatalf("%s: expected ErrRepricingInvalidInput, got %v", name, err)
		}
	}
}

func TestNormalizeVendorSettings_Duplicate(t *testing.T) {
	_, err := NormalizeVendorSettings([]VendorSettingRecord{{VendorID: 1}, {VendorID: 1}})
	if !errors.Is(err, ErrRepricingInvalidInput) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestOverlayVendorSettingRecord(t *testing.T) {
	base := VendorSettingRecord{VendorID: 17, MaxPrice: int64Ptr(3000), FloorPrice: int64Ptr(100), Strategy: "UNIT"}
	override := VendorSettingRecord{MaxPrice: int64Ptr(2000), UpDown: "DOWN"}

	merged := OverlayVendorSettingRecord(base, override)
	if merged.VendorID != 17 || *merged.MaxPrice != 2000 || *merged.FloorPrice != 100 {
		t.Fatalf("unexpected merge %+v", merged)
	}
	if merged.Strategy != "UNIT" || merged.UpDown != "DOWN" {
		t.Fatalf("unexpected enum merge %+v", merged)
	}
}
