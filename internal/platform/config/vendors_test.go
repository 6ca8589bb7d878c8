package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleVendorTable = `
vendors:
  - id: 17357
    name: Tradent
    defaults:
      floor_price: 250
      max_price: 99999
      up_down: BOTH
      sister_vendor_ids: "20722,20755"
  - id: 20722
    name: Frontier
    defaults:
      badge_indicator: BADGE_ONLY
      compete_with_all_vendors: true
`

func TestParseVendorTable(t *testing.T) {
	vendors, err := ParseVendorTable([]byte(sampleVendorTable))
	if err != nil {
		t.Fatalf("ParseVendorTable: %v", err)
	}
	if len(vendors) != 2 {
		t.Fatalf("expected 2 vendors, got %d", len(vendors))
	}

	first := vendors[0]
	if first.ID != 17357 || first.Name != "Tradent" || first.Defaults.VendorID != 17357 {
		t.Fatalf("unexpected first vendor %+v", first)
	}
	if first.Defaults.FloorPrice == nil || *first.Defaults.FloorPrice != 250 {
		t.Fatalf("expected floor price 250, got %v", first.Defaults.FloorPrice)
	}
	if first.Defaults.SisterVendorIDs != "20722,20755" || first.Defaults.UpDown != "BOTH" {
		t.Fatalf("unexpected defaults %+v", first.Defaults)
	}

	second := vendors[1]
	if second.Defaults.CompeteWithAllVendors == nil || !*second.Defaults.CompeteWithAllVendors {
		t.Fatalf("expected compete_with_all_vendors true, got %v", second.Defaults.CompeteWithAllVendors)
	}
	if second.Defaults.MaxPrice != nil {
		t.Fatalf("expected unset max price, got %v", *second.Defaults.MaxPrice)
	}
}

func TestParseVendorTableRejectsBadEntries(t *testing.T) {
	data := []byte("vendors:\n  - id: 0\n    name: Nobody\n  - id: 5\n    name: \"\"\n  - id: 6\n    name: A\n  - id: 6\n    name: B\n")
	_, err := ParseVendorTable(data)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"vendors[0].id", "vendors[1].name", "vendors[3].id"}
	if got := validationErr.Fields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := ParseVendorTable([]byte("vendors:\n  - id: 1\n    name: A\n    defaults:\n      flor_price: 1\n")); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
	if _, err := ParseVendorTable([]byte("vendors: []\n")); err == nil {
		t.Fatalf("expected empty table to be rejected")
	}
}

func TestLoadVendorTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.yaml")
	if err := os.WriteFile(path, []byte(sampleVendorTable), 0o600); err != nil {
		t.Fatalf("write vendor table: %v", err)
	}
	vendors, err := LoadVendorTable(path)
	if err != nil {
		t.Fatalf("LoadVendorTable: %v", err)
	}
	if len(vendors) != 2 {
		t.Fatalf("expected 2 vendors, got %d", len(vendors))
	}
	if _, err := LoadVendorTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
