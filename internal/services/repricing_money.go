package services

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// badgeMargin is the share of a badged offer's total an unbadged offer must stay below to outrank it.
	badgeMargin = decimal.RequireFromString("0.90")
	// bucketMargin is the share of a faster offer's total a slower offer must stay below to outrank it.
	bucketMargin = decimal.RequireFromString("0.995")
)

func centsDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents)
}

// floorCents returns the largest whole cent value not above v.
func floorCents(v decimal.Decimal) int64 {
	return v.Floor().IntPart()
}

// ceilCents returns the smallest whole cent value not below v.
func ceilCents(v decimal.Decimal) int64 {
	return v.Ceil().IntPart()
}

// strictlyBelow returns the largest whole cent value strictly below v.
func strictlyBelow(v decimal.Decimal) int64 {
	floored := v.Floor()
	if floored.Equal(v) {
		return floored.IntPart() - 1
	}
	return floored.IntPart()
}

// scaleByPercent multiplies cents by (1 + pct/100) without rounding.
func scaleByPercent(cents int64, pct float64) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(pct).Div(hundred))
	return centsDecimal(cents).Mul(factor)
}

// formatCents renders cents as a fixed two-decimal dollar amount.
func formatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

func formatOptionalCents(cents *int64) string {
	if cents == nil {
		return "none"
	}
	return formatCents(*cents)
}

func int64Ptr(v int64) *int64 {
	return &v
}
