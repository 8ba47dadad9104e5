package orderbuilder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
)

func TestScoreBounds(t *testing.T) {
	cases := []struct {
		name     string
		pp       planning.ProductProjection
		metrics  *planning.TrendMetrics
		expected int
	}{
		{
			name: "worst case maxes every dimension",
			pp: planning.ProductProjection{
				DaysOfStock:    decimal.NewFromInt(-5),
				CustomerDemand: 250,
			},
			metrics: &planning.TrendMetrics{
				Direction:       planning.TrendUp,
				ChangePct:       decimal.NewFromInt(40),
				DailyVelocityM2: decimal.NewFromInt(60),
			},
			expected: 100,
		},
		{
			name: "healthy slow mover scores near zero",
			pp: planning.ProductProjection{
				DaysOfStock: decimal.NewFromInt(120),
			},
			metrics: &planning.TrendMetrics{
				Direction: planning.TrendDown,
			},
			expected: 0,
		},
		{
			name: "stable mid-coverage product",
			pp: planning.ProductProjection{
				DaysOfStock:    decimal.NewFromInt(20),
				CustomerDemand: 60,
			},
			metrics: &planning.TrendMetrics{
				Direction:       planning.TrendStable,
				DailyVelocityM2: decimal.NewFromInt(20),
			},
			expected: 20 + 15 + 5 + 5,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := Score(tc.pp, tc.metrics)
			assert.Equal(t, tc.expected, score.Total())
			assert.GreaterOrEqual(t, score.Total(), 0)
			assert.LessOrEqual(t, score.Total(), 100)
			assert.Equal(t, score.Total(),
				score.StockoutRisk+score.CustomerDemand+score.GrowthTrend+score.RevenueImpact)
		})
	}
}

func TestScoreCriticalThreshold(t *testing.T) {
	critical := ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 15, RevenueImpact: 0}
	assert.True(t, critical.Critical())

	nearMiss := ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 10, RevenueImpact: 4}
	assert.False(t, nearMiss.Critical())
}

func TestScoreInfiniteCoverageHasNoStockoutRisk(t *testing.T) {
	pp := planning.ProductProjection{InfiniteCoverage: true}
	assert.Zero(t, Score(pp, nil).StockoutRisk)
}
