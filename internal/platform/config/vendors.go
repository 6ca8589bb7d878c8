package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// vendorTable is the on-disk shape of the own-vendor table.
type vendorTable struct {
	Vendors []vendorEntry `yaml:"vendors"`
}

type vendorEntry struct {
	ID       int64                      `yaml:"id"`
	Name     string                     `yaml:"name"`
	Defaults domain.VendorSettingRecord `yaml:"defaults"`
}

// LoadVendorTable reads the own-vendor table from a YAML file.
func LoadVendorTable(path string) ([]domain.OwnVendor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read vendor table %s: %w", path, err)
	}
	return ParseVendorTable(data)
}

// ParseVendorTable decodes the own-vendor table. Unknown keys are rejected so typos in setting
// names do not silently fall back to defaults.
func ParseVendorTable(data []byte) ([]domain.OwnVendor, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var table vendorTable
	if err := decoder.Decode(&table); err != nil {
		return nil, fmt.Errorf("config: decode vendor table: %w", err)
	}
	if len(table.Vendors) == 0 {
		return nil, errors.New("config: vendor table lists no vendors")
	}

	seen := make(map[int64]struct{}, len(table.Vendors))
	vendors := make([]domain.OwnVendor, 0, len(table.Vendors))
	var invalid []string
	for idx, entry := range table.Vendors {
		name := strings.TrimSpace(entry.Name)
		switch {
		case entry.ID <= 0:
			invalid = append(invalid, fmt.Sprintf("vendors[%d].id", idx))
			continue
		case name == "":
			invalid = append(invalid, fmt.Sprintf("vendors[%d].name", idx))
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			invalid = append(invalid, fmt.Sprintf("vendors[%d].id", idx))
			continue
		}
		seen[entry.ID] = struct{}{}

		defaults := entry.Defaults
		defaults.VendorID = entry.ID
		vendors = append(vendors, domain.OwnVendor{ID: entry.ID, Name: name, Defaults: defaults})
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{fields: invalid}
	}
	return vendors, nil
}
