package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

func stockoutSnapshot(warehouseM2, transitM2 int) *inventory.Snapshot {
	return &inventory.Snapshot{
		ProductID:   1,
		WarehouseM2: decimal.NewFromInt(int64(warehouseM2)),
		InTransitM2: decimal.NewFromInt(int64(transitM2)),
	}
}

func TestClassifyStockoutTiers(t *testing.T) {
	product := &catalog.Product{ID: 1, SKU: "BALTICO 51X51"}
	next := shared.Date(2026, time.March, 16)   // 15 days out
	second := shared.Date(2026, time.March, 31) // 30 days out
	velocity := decimal.NewFromInt(10)

	cases := []struct {
		name     string
		snapshot *inventory.Snapshot
		want     planning.PriorityTier
	}{
		{"runs out before next boat", stockoutSnapshot(100, 0), planning.TierHighPriority},
		{"runs out between boats", stockoutSnapshot(150, 50), planning.TierConsider},
		{"covered past second boat", stockoutSnapshot(400, 100), planning.TierWellCovered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := ClassifyStockout(product, tc.snapshot, velocity, analyticsToday, &next, &second)
			assert.Equal(t, tc.want, out.Tier)
			assert.True(t, out.HasData)
		})
	}
}

func TestClassifyStockoutZeroVelocity(t *testing.T) {
	product := &catalog.Product{ID: 1, SKU: "BALTICO 51X51"}
	next := shared.Date(2026, time.March, 16)
	second := shared.Date(2026, time.March, 31)

	out := ClassifyStockout(product, stockoutSnapshot(100, 0), decimal.Zero, analyticsToday, &next, &second)
	assert.Equal(t, planning.TierYourCall, out.Tier)
	assert.False(t, out.HasData)
}

func TestClassifyStockoutWithoutBoatHorizon(t *testing.T) {
	product := &catalog.Product{ID: 1, SKU: "BALTICO 51X51"}

	out := ClassifyStockout(product, stockoutSnapshot(100, 0), decimal.NewFromInt(10), analyticsToday, nil, nil)
	assert.Equal(t, planning.TierYourCall, out.Tier)
	assert.True(t, out.DaysToStockout.Equal(decimal.NewFromInt(10)))
}

func TestAllocationTargetsScaleToCapacity(t *testing.T) {
	products := []*catalog.Product{
		{ID: 1, SKU: "BALTICO 51X51"},
		{ID: 2, SKU: "CARRARA 51X51"},
	}
	metrics := map[int]*planning.TrendMetrics{
		1: {ProductID: 1, DailyVelocityM2: decimal.NewFromInt(20)},
		2: {ProductID: 2, DailyVelocityM2: decimal.NewFromInt(30)},
	}

	// Base targets: 20x10=200 and 30x10=300. Capacity 250 forces a
	// uniform 0.5 scale.
	targets := AllocationTargets(products, metrics, 10, 1.65, decimal.NewFromInt(250))
	assert.Len(t, targets, 2)
	for _, target := range targets {
		assert.True(t, target.ScaleFactor.Equal(decimal.NewFromFloat(0.5)), "got %s", target.ScaleFactor)
	}
	assert.True(t, targets[0].TargetM2.Equal(decimal.NewFromInt(100)))
	assert.True(t, targets[1].TargetM2.Equal(decimal.NewFromInt(150)))
}

func TestAllocationTargetsUnderCapacityUnscaled(t *testing.T) {
	products := []*catalog.Product{{ID: 1, SKU: "BALTICO 51X51"}}
	metrics := map[int]*planning.TrendMetrics{
		1: {ProductID: 1, DailyVelocityM2: decimal.NewFromInt(10)},
	}

	targets := AllocationTargets(products, metrics, 10, 1.65, decimal.NewFromInt(10000))
	assert.Len(t, targets, 1)
	assert.True(t, targets[0].ScaleFactor.Equal(decimal.NewFromInt(1)))
	assert.True(t, targets[0].TargetM2.Equal(decimal.NewFromInt(100)))
}
