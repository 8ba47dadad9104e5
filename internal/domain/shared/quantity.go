package shared

import "github.com/shopspring/decimal"

// Quantity helpers for m² / pallet arithmetic. All supply-conservation
// math runs on fixed-scale decimals; floats only appear at render time.

// QuantityScale is the fractional precision carried by persisted quantities.
const QuantityScale = 4

// Dec builds a decimal from an int
func Dec(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }

// DecFromFloat builds a scale-4 decimal from a float input (ingestion
// boundary only).
func DecFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(QuantityScale)
}

// CeilDiv returns ceil(num / div) as an int. div must be positive.
func CeilDiv(num, div decimal.Decimal) int {
	if num.Sign() <= 0 {
		return 0
	}
	return int(num.Div(div).Ceil().IntPart())
}

// MaxZero clamps a decimal at zero from below
func MaxZero(v decimal.Decimal) decimal.Decimal {
	if v.Sign() < 0 {
		return decimal.Zero
	}
	return v
}
