package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the latest-per-source inventory view for one product.
// Each component reflects the most recent row of its own source table;
// the three sources lag independently and are never required to share
// a snapshot date.
type Snapshot struct {
	ProductID int

	WarehouseM2 decimal.Decimal
	InTransitM2 decimal.Decimal
	// FactoryAvailableM2 is SIESA finished goods sitting at origin.
	FactoryAvailableM2 decimal.Decimal

	LargestLotM2 decimal.Decimal
	LotCode      string
	LotCount     int

	WarehouseAsOf *time.Time
	InTransitAsOf *time.Time
	FactoryAsOf   *time.Time
}

// TotalAvailableM2 is warehouse plus in-transit; used by the stockout
// primitives (SIESA is excluded - it has not crossed the ocean yet).
func (s *Snapshot) TotalAvailableM2() decimal.Decimal {
	return s.WarehouseM2.Add(s.InTransitM2)
}
