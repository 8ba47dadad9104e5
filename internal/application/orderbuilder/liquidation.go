package orderbuilder

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
)

// LiquidationReason classifies why an SKU is a liquidation candidate
type LiquidationReason string

const (
	// ReasonDecliningOverstocked - demand is falling while coverage is long
	ReasonDecliningOverstocked LiquidationReason = "declining_overstocked"

	// ReasonNoSales - no measurable demand at all
	ReasonNoSales LiquidationReason = "no_sales"

	// ReasonExtremeOverstock - coverage beyond the extreme threshold
	ReasonExtremeOverstock LiquidationReason = "extreme_overstock"
)

// LiquidationItem is one overstocked SKU whose removal would free
// warehouse space when constraints force deferring inbound orders.
type LiquidationItem struct {
	ProductID   int               `json:"product_id"`
	SKU         string            `json:"sku"`
	Reason      LiquidationReason `json:"reason"`
	Pallets     int               `json:"pallets"`
	WarehouseM2 decimal.Decimal   `json:"warehouse_m2"`
	DaysOfStock decimal.Decimal   `json:"days_of_stock"`
	TrendPct    decimal.Decimal   `json:"trend_pct"`
}

// LiquidationConfig carries the coverage thresholds
type LiquidationConfig struct {
	MinDaysOfStock     int
	ExtremeDaysOfStock int
	M2PerPallet        decimal.Decimal
}

// LiquidationCandidates identifies overstocked SKUs, sorted by pallets
// descending then trend ascending so the biggest, fastest-declining
// positions surface first.
func LiquidationCandidates(
	products []*catalog.Product,
	snapshots map[int]*inventory.Snapshot,
	metrics map[int]*planning.TrendMetrics,
	cfg LiquidationConfig,
) []LiquidationItem {
	minDays := decimal.NewFromInt(int64(cfg.MinDaysOfStock))
	extremeDays := decimal.NewFromInt(int64(cfg.ExtremeDaysOfStock))
	noSalesDays := decimal.NewFromInt(365)
	decliningPct := decimal.NewFromInt(-20)

	var items []LiquidationItem
	for _, p := range products {
		snap := snapshots[p.ID]
		if snap == nil || snap.WarehouseM2.Sign() <= 0 {
			continue
		}
		m := metrics[p.ID]

		item := LiquidationItem{
			ProductID:   p.ID,
			SKU:         p.SKU,
			WarehouseM2: snap.WarehouseM2,
			Pallets:     int(snap.WarehouseM2.Div(p.PalletDivisor(cfg.M2PerPallet)).Ceil().IntPart()),
		}

		if m == nil || m.DailyVelocityM2.Sign() <= 0 {
			item.Reason = ReasonNoSales
			items = append(items, item)
			continue
		}
		item.DaysOfStock = snap.WarehouseM2.Div(m.DailyVelocityM2).Round(1)
		item.TrendPct = m.ChangePct

		switch {
		case item.DaysOfStock.GreaterThanOrEqual(noSalesDays):
			item.Reason = ReasonNoSales
		case item.DaysOfStock.GreaterThanOrEqual(extremeDays):
			item.Reason = ReasonExtremeOverstock
		case m.ChangePct.LessThanOrEqual(decliningPct) && item.DaysOfStock.GreaterThanOrEqual(minDays):
			item.Reason = ReasonDecliningOverstocked
		default:
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Pallets != items[j].Pallets {
			return items[i].Pallets > items[j].Pallets
		}
		return items[i].TrendPct.LessThan(items[j].TrendPct)
	})
	return items
}
