package planning

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriorityTier buckets a product by when it stocks out relative to the
// next two boat arrivals.
type PriorityTier string

const (
	// TierHighPriority - stocks out before the next boat arrives
	TierHighPriority PriorityTier = "HIGH_PRIORITY"

	// TierConsider - stocks out before the second boat arrives
	TierConsider PriorityTier = "CONSIDER"

	// TierWellCovered - covered for two boat cycles
	TierWellCovered PriorityTier = "WELL_COVERED"

	// TierYourCall - insufficient data to classify
	TierYourCall PriorityTier = "YOUR_CALL"
)

// ProductStockout is the days-to-stockout picture for one SKU
type ProductStockout struct {
	ProductID      int             `json:"product_id"`
	SKU            string          `json:"sku"`
	DaysToStockout decimal.Decimal `json:"days_to_stockout"`
	HasData        bool            `json:"has_data"`
	Tier           PriorityTier    `json:"tier"`
	NextBoatDate   *time.Time      `json:"next_boat_arrival,omitempty"`
	SecondBoatDate *time.Time      `json:"second_boat_arrival,omitempty"`
}

// AllocationTarget is the base + safety-stock warehouse target for one SKU
type AllocationTarget struct {
	ProductID   int             `json:"product_id"`
	SKU         string          `json:"sku"`
	TargetM2    decimal.Decimal `json:"target_m2"`
	BaseM2      decimal.Decimal `json:"base_m2"`
	SafetyM2    decimal.Decimal `json:"safety_m2"`
	ScaleFactor decimal.Decimal `json:"scale_factor"` // 1 unless capacity forced a scale-down
}
