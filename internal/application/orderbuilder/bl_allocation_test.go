package orderbuilder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
)

func shipItem(id int, sku string, pallets int, score ProductScore) ShipNowItem {
	return ShipNowItem{
		ProductID: id,
		SKU:       sku,
		Pallets:   pallets,
		M2:        decimal.NewFromInt(int64(pallets)).Mul(decimal.NewFromFloat(134.4)),
		Score:     score,
	}
}

func blInput(numBLs int, customers map[string]string, products ...planning.ProductProjection) BuildInput {
	return BuildInput{
		Projection:       &planning.BoatProjection{Products: products},
		PrimaryCustomers: customers,
		NumBLs:           numBLs,
	}
}

func TestAllocateSpreadsCriticalRoundRobin(t *testing.T) {
	items := []ShipNowItem{
		shipItem(1, "C1", 14, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 20, RevenueImpact: 5}),  // 95
		shipItem(2, "C2", 14, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 15, RevenueImpact: 5}),  // 90
		shipItem(3, "C3", 14, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 15, RevenueImpact: 3}),  // 88
	}
	in := blInput(2, nil,
		planning.ProductProjection{ProductID: 1, SKU: "C1"},
		planning.ProductProjection{ProductID: 2, SKU: "C2"},
		planning.ProductProjection{ProductID: 3, SKU: "C3"},
	)

	report := testBuilder().allocateBLs(items, in)
	require.Len(t, report.BLs, 2)

	assert.Equal(t, 28, report.BLs[0].Pallets)
	assert.Equal(t, 2, report.BLs[0].Containers)
	assert.Equal(t, 14, report.BLs[1].Pallets)
	assert.Equal(t, 1, report.BLs[1].Containers)

	assert.Equal(t, 3, report.TotalCritical)
	assert.Equal(t, 2, report.MaxCriticalInOneBL)
	assert.True(t, report.RiskDistributionEven, "ceil(3*0.4)=2 allows 2 per BL")
	assert.Empty(t, report.Warnings)
}

func TestAllocateCustomerAffinity(t *testing.T) {
	critical := shipItem(1, "CRIT", 14, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 20, RevenueImpact: 10})
	companion := shipItem(2, "ACOMP", 7, ProductScore{StockoutRisk: 10})
	stranger := shipItem(3, "OTRO", 7, ProductScore{StockoutRisk: 10})

	customers := map[string]string{"CRIT": "FERRETERIA LOPEZ", "ACOMP": "FERRETERIA LOPEZ"}
	in := blInput(2, customers,
		planning.ProductProjection{ProductID: 1, SKU: "CRIT"},
		planning.ProductProjection{ProductID: 2, SKU: "ACOMP"},
		planning.ProductProjection{ProductID: 3, SKU: "OTRO"},
	)

	report := testBuilder().allocateBLs([]ShipNowItem{critical, companion, stranger}, in)

	// The companion follows its customer's critical product onto BL 1;
	// the unaffiliated product lands on the emptier BL 2.
	require.Len(t, report.BLs[0].Products, 2)
	assert.Equal(t, "CRIT", report.BLs[0].Products[0].SKU)
	assert.Equal(t, "ACOMP", report.BLs[0].Products[1].SKU)
	require.Len(t, report.BLs[1].Products, 1)
	assert.Equal(t, "OTRO", report.BLs[1].Products[0].SKU)
	assert.Equal(t, []string{"FERRETERIA LOPEZ"}, report.BLs[0].Customers)
}

func TestAllocateMigratesOverflow(t *testing.T) {
	// Customer affinity piles 75 pallets onto BL 1 (capacity 70); the
	// non-critical line must migrate to BL 2.
	crit1 := shipItem(1, "GRANDE", 30, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 20, RevenueImpact: 10})
	crit2 := shipItem(2, "CHICO", 10, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 15, RevenueImpact: 3})
	companion := shipItem(3, "ACOMP", 45, ProductScore{StockoutRisk: 10})

	customers := map[string]string{"GRANDE": "FERRETERIA LOPEZ", "ACOMP": "FERRETERIA LOPEZ"}
	in := blInput(2, customers,
		planning.ProductProjection{ProductID: 1, SKU: "GRANDE"},
		planning.ProductProjection{ProductID: 2, SKU: "CHICO"},
		planning.ProductProjection{ProductID: 3, SKU: "ACOMP"},
	)

	report := testBuilder().allocateBLs([]ShipNowItem{crit1, crit2, companion}, in)

	capPallets := 5 * 14
	for _, bl := range report.BLs {
		assert.LessOrEqual(t, bl.Pallets, capPallets)
	}
	assert.Equal(t, 30, report.BLs[0].Pallets)
	assert.Equal(t, 55, report.BLs[1].Pallets, "overflowed line moves to the BL with slack")
	assert.Empty(t, report.Warnings)
}

func TestAllocateWeightAndM2Totals(t *testing.T) {
	item := shipItem(1, "UNICO", 14, ProductScore{StockoutRisk: 40, CustomerDemand: 30, GrowthTrend: 20, RevenueImpact: 10})
	in := blInput(1, nil, planning.ProductProjection{ProductID: 1, SKU: "UNICO"})

	report := testBuilder().allocateBLs([]ShipNowItem{item}, in)
	require.Len(t, report.BLs, 1)

	expectedM2 := decimal.NewFromFloat(134.4).Mul(decimal.NewFromInt(14))
	assert.True(t, report.BLs[0].M2.Equal(expectedM2))
	assert.True(t, report.BLs[0].WeightKg.Equal(expectedM2.Mul(decimal.NewFromInt(22)).Round(1)))
}
