package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
)

func pattern(customer string, tier sales.CustomerTier, revenue int, lastOrderDaysAgo, gapDays int, skus ...string) *sales.CustomerPattern {
	return &sales.CustomerPattern{
		CustomerNormalized: customer,
		Tier:               tier,
		TotalRevenueUSD:    decimal.NewFromInt(int64(revenue)),
		AvgGapDays:         gapDays,
		LastOrderDate:      analyticsToday.AddDate(0, 0, -lastOrderDaysAgo),
		TopProducts:        skus,
		AvgOrderM2:         decimal.NewFromInt(400),
	}
}

func TestScoresBySKUWeighsTierAndOverdue(t *testing.T) {
	scorer := NewCustomerScorer([]*sales.CustomerPattern{
		// Tier A, 40 days overdue: weight 100 x 2.0.
		pattern("CERAMICAS GT", sales.TierA, 90000, 70, 30, "BALTICO 51X51"),
		// Tier C, not overdue: weight 25 x 1.0.
		pattern("PISOS HN", sales.TierC, 5000, 5, 60, "BALTICO 51X51", "CARRARA 51X51"),
	})

	scores := scorer.ScoresBySKU(analyticsToday)
	assert.Equal(t, 225, scores["BALTICO 51X51"])
	assert.Equal(t, 25, scores["CARRARA 51X51"])
}

func TestPrimaryCustomerIsHighestRevenue(t *testing.T) {
	scorer := NewCustomerScorer([]*sales.CustomerPattern{
		pattern("CERAMICAS GT", sales.TierA, 90000, 10, 30, "BALTICO 51X51"),
		pattern("AZULEJOS SV", sales.TierB, 40000, 10, 30, "BALTICO 51X51", "CARRARA 51X51"),
	})

	primary := scorer.PrimaryCustomerBySKU()
	assert.Equal(t, "CERAMICAS GT", primary["BALTICO 51X51"])
	assert.Equal(t, "AZULEJOS SV", primary["CARRARA 51X51"])
}

func TestExpectedDueOnlyCountsOverdueCustomers(t *testing.T) {
	scorer := NewCustomerScorer([]*sales.CustomerPattern{
		pattern("CERAMICAS GT", sales.TierA, 90000, 70, 30, "BALTICO 51X51"),
		pattern("PISOS HN", sales.TierC, 5000, 5, 60, "BALTICO 51X51"),
	})

	due := scorer.ExpectedDueM2BySKU(analyticsToday)
	require.Contains(t, due, "BALTICO 51X51")
	assert.True(t, due["BALTICO 51X51"].Equal(decimal.NewFromInt(400)), "only the overdue customer contributes")
}

func TestAssignTiersByCumulativeRevenue(t *testing.T) {
	patterns := []*sales.CustomerPattern{
		pattern("FOXTROT", "", 350, 10, 30),
		pattern("ALPHA", "", 400, 10, 30),
		pattern("CHARLIE", "", 380, 10, 30),
		pattern("ECHO", "", 360, 10, 30),
		pattern("BRAVO", "", 390, 10, 30),
		pattern("DELTA", "", 370, 10, 30),
	}
	// Total 2250: A cut 450, B cut 1125.
	AssignTiers(patterns)

	byName := make(map[string]sales.CustomerTier)
	for _, p := range patterns {
		byName[p.CustomerNormalized] = p.Tier
	}
	assert.Equal(t, sales.TierA, byName["ALPHA"])
	assert.Equal(t, sales.TierB, byName["BRAVO"], "cumulative 790 is inside the 50%% cut")
	assert.Equal(t, sales.TierC, byName["CHARLIE"], "cumulative 1170 crosses the 50%% cut")
	assert.Equal(t, sales.TierC, byName["FOXTROT"])
}

func TestAssignTiersZeroRevenueAllC(t *testing.T) {
	patterns := []*sales.CustomerPattern{
		pattern("ONE", "", 0, 10, 30),
		pattern("TWO", "", 0, 10, 30),
	}
	AssignTiers(patterns)
	for _, p := range patterns {
		assert.Equal(t, sales.TierC, p.Tier)
	}
}
