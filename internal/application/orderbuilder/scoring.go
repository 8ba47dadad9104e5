package orderbuilder

import (
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
)

// criticalScore is the floor above which a product gets round-robin
// spread across BLs instead of affinity placement.
const criticalScore = 85

// ProductScore is the additive 0-100 ordering priority for one SKU.
// Each dimension carries a fixed cap; the total is their sum.
type ProductScore struct {
	StockoutRisk   int `json:"stockout_risk"`   // max 40
	CustomerDemand int `json:"customer_demand"` // max 30
	GrowthTrend    int `json:"growth_trend"`    // max 20
	RevenueImpact  int `json:"revenue_impact"`  // max 10
}

// Total sums the four dimensions
func (s ProductScore) Total() int {
	return s.StockoutRisk + s.CustomerDemand + s.GrowthTrend + s.RevenueImpact
}

// Critical reports whether the product needs customs-safety spreading
func (s ProductScore) Critical() bool { return s.Total() >= criticalScore }

// Score computes the priority for one product projection plus its
// trend metrics.
func Score(pp planning.ProductProjection, m *planning.TrendMetrics) ProductScore {
	score := ProductScore{
		StockoutRisk:   stockoutRisk(pp),
		CustomerDemand: customerDemand(pp.CustomerDemand),
	}
	if m != nil {
		score.GrowthTrend = growthTrend(m)
		score.RevenueImpact = revenueImpact(m.DailyVelocityM2)
	}
	return score
}

func stockoutRisk(pp planning.ProductProjection) int {
	if pp.InfiniteCoverage {
		return 0
	}
	days := pp.DaysOfStock
	switch {
	case days.Sign() <= 0:
		return 40
	case days.LessThan(decimal.NewFromInt(7)):
		return 35
	case days.LessThan(decimal.NewFromInt(14)):
		return 30
	case days.LessThan(decimal.NewFromInt(30)):
		return 20
	case days.LessThan(decimal.NewFromInt(60)):
		return 10
	default:
		return 0
	}
}

func customerDemand(signal int) int {
	switch {
	case signal >= 200:
		return 30
	case signal >= 100:
		return 25
	case signal >= 50:
		return 15
	case signal > 0:
		return 10
	default:
		return 0
	}
}

func growthTrend(m *planning.TrendMetrics) int {
	switch m.Direction {
	case planning.TrendUp:
		switch {
		case m.ChangePct.GreaterThanOrEqual(decimal.NewFromInt(30)):
			return 20
		case m.ChangePct.GreaterThanOrEqual(decimal.NewFromInt(15)):
			return 15
		default:
			return 10
		}
	case planning.TrendStable:
		return 5
	default:
		return 0
	}
}

func revenueImpact(velocity decimal.Decimal) int {
	switch {
	case velocity.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return 10
	case velocity.GreaterThanOrEqual(decimal.NewFromInt(30)):
		return 8
	case velocity.GreaterThanOrEqual(decimal.NewFromInt(15)):
		return 5
	case velocity.Sign() > 0:
		return 3
	default:
		return 0
	}
}

// tierRank orders priority tiers for the ship-now fill
func tierRank(t planning.PriorityTier) int {
	switch t {
	case planning.TierHighPriority:
		return 0
	case planning.TierConsider:
		return 1
	case planning.TierWellCovered:
		return 2
	default:
		return 3
	}
}
