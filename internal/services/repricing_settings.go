package services

import (
	"fmt"
	"strconv"
	"strings"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
)

// NormalizeVendorSetting turns an operator record into a fully defaulted VendorSetting.
// The record is never modified; slices are copied.
func NormalizeVendorSetting(record VendorSettingRecord) (VendorSetting, error) {
	if record.VendorID <= 0 {
		return VendorSetting{}, fmt.Errorf("%w: vendor id must be positive", ErrRepricingInvalidInput)
	}

	setting := VendorSetting{
		VendorID:                    record.VendorID,
		Enabled:                     boolOr(record.Enabled, true),
		FloorPrice:                  int64Or(record.FloorPrice, 0),
		MaxPrice:                    int64Or(record.MaxPrice, 0),
		UpPercent:                   floatOr(record.UpPercent, 0),
		UpPercentBadged:             floatOr(record.UpPercentBadged, 0),
		DownPercent:                 floatOr(record.DownPercent, 0),
		DownPercentBadged:           floatOr(record.DownPercentBadged, 0),
		ExcludedVendorIDs:           append([]int64(nil), record.ExcludedVendorIDs...),
		InactiveVendorIDs:           append([]int64(nil), record.InactiveVendorIDs...),
		InventoryCompeteThreshold:   intOr(record.InventoryCompeteThreshold, 0),
		SuppressPriceBreak:          boolOr(record.SuppressPriceBreak, false),
		CompeteOnPriceBreakOnly:     boolOr(record.CompeteOnPriceBreakOnly, false),
		CompareQ2WithQ1:             boolOr(record.CompareQ2WithQ1, false),
		CompeteWithAllVendors:       boolOr(record.CompeteWithAllVendors, false),
		KeepPosition:                boolOr(record.KeepPosition, false),
		FloorCompeteWithNext:        boolOr(record.FloorCompeteWithNext, false),
		OwnVendorInventoryThreshold: intOr(record.OwnVendorInventoryThreshold, 0),
		NotCheapest:                 boolOr(record.NotCheapest, false),
		SuppressIfQ1NotUpdated:      boolOr(record.SuppressIfQ1NotUpdated, false),
	}

	var err error
	if setting.UpDown, err = parseUpDown(record.UpDown); err != nil {
		return VendorSetting{}, err
	}
	if setting.BadgeIndicator, err = parseBadgeIndicator(record.BadgeIndicator); err != nil {
		return VendorSetting{}, err
	}
	if setting.HandlingTimeGroup, err = parseHandlingTimeGroup(record.HandlingTimeGroup); err != nil {
		return VendorSetting{}, err
	}
	if setting.Strategy, err = parseStrategy(record.Strategy); err != nil {
		return VendorSetting{}, err
	}
	if setting.SisterVendorIDs, err = ParseVendorIDList(record.SisterVendorIDs); err != nil {
		return VendorSetting{}, err
	}

	switch {
	case setting.FloorPrice < 0 || setting.MaxPrice < 0:
		return VendorSetting{}, fmt.Errorf("%w: vendor %d prices must not be negative", ErrRepricingInvalidInput, setting.VendorID)
	case setting.InventoryCompeteThreshold < 0 || setting.OwnVendorInventoryThreshold < 0:
		return VendorSetting{}, fmt.Errorf("%w: vendor %d inventory thresholds must not be negative", ErrRepricingInvalidInput, setting.VendorID)
	}
	for _, pct := range []float64{setting.UpPercent, setting.UpPercentBadged, setting.DownPercent, setting.DownPercentBadged} {
		if pct < 0 || pct > 100 {
			return VendorSetting{}, fmt.Errorf("%w: vendor %d percentage %v out of range", ErrRepricingInvalidInput, setting.VendorID, pct)
		}
	}
	return setting, nil
}

// NormalizeVendorSettings normalizes every record and indexes the result by vendor id.
func NormalizeVendorSettings(records []VendorSettingRecord) (map[int64]VendorSetting, error) {
	settings := make(map[int64]VendorSetting, len(records))
	for _, record := range records {
		setting, err := NormalizeVendorSetting(record)
		if err != nil {
			return nil, err
		}
		if _, exists := settings[setting.VendorID]; exists {
			return nil, fmt.Errorf("%w: duplicate setting for vendor %d", ErrRepricingInvalidInput, setting.VendorID)
		}
		settings[setting.VendorID] = setting
	}
	return settings, nil
}

// OverlayVendorSettingRecord fills fields left unset in override from base.
func OverlayVendorSettingRecord(base, override VendorSettingRecord) VendorSettingRecord {
	merged := base
	if override.VendorID != 0 {
		merged.VendorID = override.VendorID
	}
	if override.Enabled != nil {
		merged.Enabled = override.Enabled
	}
	if override.FloorPrice != nil {
		merged.FloorPrice = override.FloorPrice
	}
	if override.MaxPrice != nil {
		merged.MaxPrice = override.MaxPrice
	}
	if override.UpDown != "" {
		merged.UpDown = override.UpDown
	}
	if override.UpPercent != nil {
		merged.UpPercent = override.UpPercent
	}
	if override.UpPercentBadged != nil {
		merged.UpPercentBadged = override.UpPercentBadged
	}
	if override.DownPercent != nil {
		merged.DownPercent = override.DownPercent
	}
	if override.DownPercentBadged != nil {
		merged.DownPercentBadged = override.DownPercentBadged
	}
	if override.BadgeIndicator != "" {
		merged.BadgeIndicator = override.BadgeIndicator
	}
	if override.HandlingTimeGroup != "" {
		merged.HandlingTimeGroup = override.HandlingTimeGroup
	}
	if override.ExcludedVendorIDs != nil {
		merged.ExcludedVendorIDs = override.ExcludedVendorIDs
	}
	if override.InactiveVendorIDs != nil {
		merged.InactiveVendorIDs = override.InactiveVendorIDs
	}
	if override.InventoryCompeteThreshold != nil {
		merged.InventoryCompeteThreshold = override.InventoryCompeteThreshold
	}
	if override.SuppressPriceBreak != nil {
		merged.SuppressPriceBreak = override.SuppressPriceBreak
	}
	if override.CompeteOnPriceBreakOnly != nil {
		merged.CompeteOnPriceBreakOnly = override.CompeteOnPriceBreakOnly
	}
	if override.CompareQ2WithQ1 != nil {
		merged.CompareQ2WithQ1 = override.CompareQ2WithQ1
	}
	if override.CompeteWithAllVendors != nil {
		merged.CompeteWithAllVendors = override.CompeteWithAllVendors
	}
	if override.SisterVendorIDs != "" {
		merged.SisterVendorIDs = override.SisterVendorIDs
	}
	if override.KeepPosition != nil {
		merged.KeepPosition = override.KeepPosition
	}
	if override.FloorCompeteWithNext != nil {
		merged.FloorCompeteWithNext = override.FloorCompeteWithNext
	}
	if override.OwnVendorInventoryThreshold != nil {
		merged.OwnVendorInventoryThreshold = override.OwnVendorInventoryThreshold
	}
	if override.Strategy != "" {
		merged.Strategy = override.Strategy
	}
	if override.NotCheapest != nil {
		merged.NotCheapest = override.NotCheapest
	}
	if override.SuppressIfQ1NotUpdated != nil {
		merged.SuppressIfQ1NotUpdated = override.SuppressIfQ1NotUpdated
	}
	return merged
}

// ParseVendorIDList parses a comma separated list of vendor ids. Blank entries are ignored.
func ParseVendorIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid vendor id %q", ErrRepricingInvalidInput, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseUpDown(raw string) (domain.UpDownRestriction, error) {
	switch value := domain.UpDownRestriction(strings.ToUpper(strings.TrimSpace(raw))); value {
	case "":
		return domain.UpDownBoth, nil
	case domain.UpDownBoth, domain.UpDownUp, domain.UpDownDown:
		return value, nil
	}
	return "", fmt.Errorf("%w: unknown up/down restriction %q", ErrRepricingInvalidInput, raw)
}

func parseBadgeIndicator(raw string) (domain.BadgeIndicator, error) {
	switch value := domain.BadgeIndicator(strings.ToUpper(strings.TrimSpace(raw))); value {
	case "":
		return domain.BadgeIndicatorAll, nil
	case domain.BadgeIndicatorAll, domain.BadgeIndicatorBadgeOnly:
		return value, nil
	}
	return "", fmt.Errorf("%w: unknown badge indicator %q", ErrRepricingInvalidInput, raw)
}

func parseHandlingTimeGroup(raw string) (domain.HandlingTimeGroup, error) {
	switch value := domain.HandlingTimeGroup(strings.ToUpper(strings.ReplaceAll(raw, " ", ""))); value {
	case "":
		return domain.HandlingTimeAll, nil
	case domain.HandlingTimeAll, domain.HandlingTimeOneToTwo, domain.HandlingTimeUpToFive, domain.HandlingTimeSixOrMore:
		return value, nil
	}
	return "", fmt.Errorf("%w: unknown handling time group %q", ErrRepricingInvalidInput, raw)
}

func parseStrategy(raw string) (domain.PricingStrategy, error) {
	switch value := domain.PricingStrategy(strings.ToUpper(strings.TrimSpace(raw))); value {
	case "":
		return domain.StrategyBuyBox, nil
	case domain.StrategyUnit, domain.StrategyTotalCost, domain.StrategyBuyBox:
		return value, nil
	}
	return "", fmt.Errorf("%w: unknown pricing strategy %q", ErrRepricingInvalidInput, raw)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func int64Or(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
