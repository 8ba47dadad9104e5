package orderbuilder

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

func testBuilder() *Builder {
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	return NewBuilder(clock, BuilderConfig{
		M2PerPallet:         decimal.NewFromFloat(134.4),
		PalletsPerContainer: 14,
		MaxContainersPerBL:  5,
		OrderingCycleDays:   30,
		KgPerM2:             decimal.NewFromInt(22),
	})
}

func builderBoats() []*schedule.Boat {
	return []*schedule.Boat{
		{ID: "b1", VesselName: "MSC b1", DepartureDate: shared.Date(2026, time.March, 20), ArrivalDate: shared.Date(2026, time.April, 5), Status: schedule.BoatAvailable},
		{ID: "b2", VesselName: "MSC b2", DepartureDate: shared.Date(2026, time.April, 20), ArrivalDate: shared.Date(2026, time.May, 10), Status: schedule.BoatAvailable},
	}
}

func projection(products ...planning.ProductProjection) *planning.BoatProjection {
	boats := builderBoats()
	return &planning.BoatProjection{Boat: *boats[0], Products: products}
}

func TestBuildFactoryRequestContainerMinimum(t *testing.T) {
	slow := planning.ProductProjection{ProductID: 1, SKU: "LENTO 51X51", DailyVelocityM2: decimal.NewFromInt(1)}
	fast := planning.ProductProjection{ProductID: 2, SKU: "RAPIDO 51X51", DailyVelocityM2: decimal.NewFromInt(20)}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(slow, fast),
		Boats:      builderBoats(),
		Snapshots:  map[int]*inventory.Snapshot{},
	})

	require.Len(t, result.FactoryRequest, 2)
	byID := map[int]FactoryRequestItem{}
	for _, item := range result.FactoryRequest {
		byID[item.ProductID] = item
	}

	lowVol := byID[1]
	assert.True(t, lowVol.IsLowVolume, "a container would take %s days to consume", lowVol.DaysToConsume)
	assert.False(t, lowVol.ShouldRequest)
	assert.Equal(t, 0, lowVol.RequestPallets)

	oneContainer := byID[2]
	assert.True(t, oneContainer.ShouldRequest)
	assert.True(t, oneContainer.MinimumApplied)
	assert.Equal(t, 14, oneContainer.RequestPallets)
	assert.True(t, oneContainer.RequestM2.Equal(decimal.NewFromFloat(1881.6)))
	assert.Equal(t, 1, oneContainer.Containers)
}

func TestBuildFactoryRequestWholeContainers(t *testing.T) {
	// Heavy demand: need well above one container rounds up, never
	// fractionally.
	heavy := planning.ProductProjection{ProductID: 3, SKU: "PESADO 51X51", DailyVelocityM2: decimal.NewFromInt(80)}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(heavy),
		Boats:      builderBoats(),
		Snapshots:  map[int]*inventory.Snapshot{},
	})

	require.Len(t, result.FactoryRequest, 1)
	item := result.FactoryRequest[0]
	require.True(t, item.ShouldRequest)
	assert.False(t, item.MinimumApplied)
	assert.GreaterOrEqual(t, item.RequestPallets, 14)
	assert.Zero(t, item.RequestPallets%14, "requests are whole containers")
}

func TestBuildFactoryRequestSkipsCoveredStock(t *testing.T) {
	covered := planning.ProductProjection{ProductID: 4, SKU: "CUBIERTO 51X51", DailyVelocityM2: decimal.NewFromInt(10)}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(covered),
		Boats:      builderBoats(),
		Snapshots: map[int]*inventory.Snapshot{
			4: {ProductID: 4, WarehouseM2: decimal.NewFromInt(5000)},
		},
	})
	assert.Empty(t, result.FactoryRequest, "positive projected stock needs no request")
}

func TestBuildShipNowDrainsSiesaByPriority(t *testing.T) {
	urgent := planning.ProductProjection{
		ProductID: 1, SKU: "URGENTE 51X51",
		DaysOfStock: decimal.NewFromInt(3), DailyVelocityM2: decimal.NewFromInt(60),
		SuggestedPallets: 10,
	}
	relaxed := planning.ProductProjection{
		ProductID: 2, SKU: "TRANQUILO 51X51",
		DaysOfStock: decimal.NewFromInt(90), DailyVelocityM2: decimal.NewFromInt(5),
		SuggestedPallets: 4,
	}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(relaxed, urgent),
		Boats:      builderBoats(),
		Snapshots: map[int]*inventory.Snapshot{
			1: {ProductID: 1, FactoryAvailableM2: decimal.NewFromInt(2000), WarehouseM2: decimal.NewFromInt(100)},
			2: {ProductID: 2, FactoryAvailableM2: decimal.NewFromInt(1000), WarehouseM2: decimal.NewFromInt(400)},
		},
		Stockouts: map[int]planning.ProductStockout{
			1: {ProductID: 1, Tier: planning.TierHighPriority},
			2: {ProductID: 2, Tier: planning.TierWellCovered},
		},
		NumBLs: 1,
	})

	require.Len(t, result.ShipNow, 2)
	assert.Equal(t, "URGENTE 51X51", result.ShipNow[0].SKU, "high priority fills first")
	assert.Equal(t, 10, result.ShipNow[0].Pallets)
	// 1000 m2 of SIESA caps the second product below its suggestion.
	assert.Equal(t, 4, result.ShipNow[1].Pallets)
}

func TestBuildShipNowRespectsSiesaLimit(t *testing.T) {
	pp := planning.ProductProjection{
		ProductID: 1, SKU: "ESCASO 51X51",
		DaysOfStock: decimal.NewFromInt(2), DailyVelocityM2: decimal.NewFromInt(30),
		SuggestedPallets: 10,
	}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(pp),
		Boats:      builderBoats(),
		Snapshots: map[int]*inventory.Snapshot{
			// Room for only 3 whole pallets.
			1: {ProductID: 1, FactoryAvailableM2: decimal.NewFromFloat(450.0)},
		},
		NumBLs: 1,
	})

	require.Len(t, result.ShipNow, 1)
	assert.Equal(t, 3, result.ShipNow[0].Pallets)
}

func TestBuildAddToProductionDelta(t *testing.T) {
	pp := planning.ProductProjection{
		ProductID: 1, SKU: "AMPLIAR 51X51",
		DailyVelocityM2: decimal.NewFromInt(10),
		SuggestedM2:     decimal.NewFromInt(900),
	}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(pp),
		Boats:      builderBoats(),
		Snapshots:  map[int]*inventory.Snapshot{},
		Production: map[int][]*inventory.ProductionRow{
			1: {{ID: 5, ProductID: 1, Status: inventory.ProductionScheduled,
				RequestedM2:           decimal.NewFromInt(600),
				EstimatedDeliveryDate: shared.Date(2026, time.April, 1)}},
		},
	})

	require.Len(t, result.AddToProduction, 1)
	add := result.AddToProduction[0]
	assert.Equal(t, 5, add.RowID)
	assert.True(t, add.AdditionalM2.Equal(decimal.NewFromInt(300)))
	assert.Empty(t, result.FactoryRequest, "piggybacked SKUs skip the request section")
}

func TestBuildExcludedSKUsNeverAppear(t *testing.T) {
	pp := planning.ProductProjection{
		ProductID: 1, SKU: "EXCLUIDO 51X51",
		DailyVelocityM2: decimal.NewFromInt(20), SuggestedPallets: 5,
	}

	result := testBuilder().Build(BuildInput{
		Factory:    &catalog.Factory{ID: 1, UnitType: catalog.UnitTypeM2},
		Projection: projection(pp),
		Boats:      builderBoats(),
		Snapshots: map[int]*inventory.Snapshot{
			1: {ProductID: 1, FactoryAvailableM2: decimal.NewFromInt(2000)},
		},
		Excluded: map[string]bool{"EXCLUIDO 51X51": true},
	})

	assert.Empty(t, result.ShipNow)
	assert.Empty(t, result.AddToProduction)
	assert.Empty(t, result.FactoryRequest)
}
