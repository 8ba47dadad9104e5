package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is an immutable snapshot of a sellable tile reference.
// SKU is the human identifier and is unique within the active set.
type Product struct {
	ID             int
	SKU            string
	FactoryID      int
	Category       string
	RotationTag    string
	Active         bool
	UnitsPerPallet *int // set for unit-based factories, nil for m²-based
}

// PalletDivisor returns the quantity represented by one pallet of this
// product: units_per_pallet for unit-based factories, the global
// m²-per-pallet constant otherwise.
func (p *Product) PalletDivisor(m2PerPallet decimal.Decimal) decimal.Decimal {
	if p.UnitsPerPallet != nil && *p.UnitsPerPallet > 0 {
		return decimal.NewFromInt(int64(*p.UnitsPerPallet))
	}
	return m2PerPallet
}
