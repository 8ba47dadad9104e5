package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// ClassifyStockout computes days-to-stockout for one product relative
// to the next two boat arrivals. Warehouse plus in-transit is the
// available pool; SIESA has not crossed the ocean and is excluded.
func ClassifyStockout(
	product *catalog.Product,
	snap *inventory.Snapshot,
	velocity decimal.Decimal,
	today time.Time,
	nextBoatArrival, secondBoatArrival *time.Time,
) planning.ProductStockout {
	out := planning.ProductStockout{
		ProductID:      product.ID,
		SKU:            product.SKU,
		NextBoatDate:   nextBoatArrival,
		SecondBoatDate: secondBoatArrival,
	}

	if velocity.Sign() <= 0 || snap == nil {
		out.Tier = planning.TierYourCall
		return out
	}

	out.HasData = true
	out.DaysToStockout = snap.TotalAvailableM2().Div(velocity).Round(1)

	if nextBoatArrival == nil || secondBoatArrival == nil {
		// No boat horizon to compare against; classify on raw coverage.
		out.Tier = planning.TierYourCall
		return out
	}

	daysToNext := decimal.NewFromInt(int64(shared.DaysBetween(today, *nextBoatArrival)))
	daysToSecond := decimal.NewFromInt(int64(shared.DaysBetween(today, *secondBoatArrival)))

	switch {
	case out.DaysToStockout.LessThan(daysToNext):
		out.Tier = planning.TierHighPriority
	case out.DaysToStockout.LessThan(daysToSecond):
		out.Tier = planning.TierConsider
	default:
		out.Tier = planning.TierWellCovered
	}
	return out
}

// AllocationTargets computes the base + safety-stock target per SKU:
// target = v x lead_time + std_dev x Z x sqrt(lead_time). When the sum
// exceeds warehouse capacity, every target is scaled down by the same
// factor and that factor is recorded on each row.
func AllocationTargets(
	products []*catalog.Product,
	metrics map[int]*planning.TrendMetrics,
	leadTimeDays int,
	zScore float64,
	warehouseCapacityM2 decimal.Decimal,
) []planning.AllocationTarget {
	lead := decimal.NewFromInt(int64(leadTimeDays))
	sqrtLead := shared.DecFromFloat(math.Sqrt(float64(leadTimeDays)))
	z := shared.DecFromFloat(zScore)

	targets := make([]planning.AllocationTarget, 0, len(products))
	var total decimal.Decimal
	for _, p := range products {
		m := metrics[p.ID]
		if m == nil {
			continue
		}
		base := m.DailyVelocityM2.Mul(lead)
		// Weekly std-dev approximated from cv x mean weekly demand,
		// converted to daily.
		weeklyMean := m.DailyVelocityM2.Mul(decimal.NewFromInt(7))
		dailyStd := m.CV.Mul(weeklyMean).Div(decimal.NewFromInt(7))
		safety := dailyStd.Mul(z).Mul(sqrtLead).Round(shared.QuantityScale)

		t := planning.AllocationTarget{
			ProductID:   p.ID,
			SKU:         p.SKU,
			BaseM2:      base.Round(shared.QuantityScale),
			SafetyM2:    safety,
			TargetM2:    base.Add(safety).Round(shared.QuantityScale),
			ScaleFactor: decimal.NewFromInt(1),
		}
		total = total.Add(t.TargetM2)
		targets = append(targets, t)
	}

	if warehouseCapacityM2.Sign() > 0 && total.GreaterThan(warehouseCapacityM2) {
		factor := warehouseCapacityM2.Div(total).Round(shared.QuantityScale)
		for i := range targets {
			targets[i].TargetM2 = targets[i].TargetM2.Mul(factor).Round(shared.QuantityScale)
			targets[i].ScaleFactor = factor
		}
	}
	return targets
}
