package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

type fakePatternReader struct {
	patterns []*sales.CustomerPattern
}

func (f *fakePatternReader) FindAll(context.Context) ([]*sales.CustomerPattern, error) {
	return f.patterns, nil
}

type fakeProductFinder struct {
	products []*catalog.Product
}

func (f *fakeProductFinder) FindAllActive(context.Context) ([]*catalog.Product, error) {
	return f.products, nil
}

func intelligenceService(records []*sales.Record, patterns []*sales.CustomerPattern, products []*catalog.Product) *IntelligenceService {
	return NewIntelligenceService(
		&fakeSalesReader{records: records},
		&fakePatternReader{patterns: patterns},
		&fakeProductFinder{products: products},
		shared.NewFixedClock(analyticsToday),
	)
}

func saleRecord(productID int, weekStart time.Time, m2, priceUSD int, customer string) *sales.Record {
	return &sales.Record{
		ProductID:          productID,
		WeekStart:          weekStart,
		QuantityM2:         decimal.NewFromInt(int64(m2)),
		TotalPriceUSD:      decimal.NewFromInt(int64(priceUSD)),
		CustomerNormalized: customer,
	}
}

func TestProductTrendsComparesWindows(t *testing.T) {
	products := []*catalog.Product{
		{ID: 1, SKU: "BALTICO 51X51", Active: true},
		{ID: 2, SKU: "CARRARA 51X51", Active: true},
	}
	records := []*sales.Record{
		// Current window (Feb): BALTICO 600, CARRARA 200.
		saleRecord(1, shared.Date(2026, time.February, 9), 600, 1200, "CERAMICAS GT"),
		saleRecord(2, shared.Date(2026, time.February, 16), 200, 400, "AZULEJOS SV"),
		// Comparison window (Jan): BALTICO 300, CARRARA 400.
		saleRecord(1, shared.Date(2026, time.January, 12), 300, 600, "CERAMICAS GT"),
		saleRecord(2, shared.Date(2026, time.January, 12), 400, 800, "AZULEJOS SV"),
	}
	svc := intelligenceService(records, nil, products)

	trends, err := svc.ProductTrends(context.Background(), TrendQuery{PeriodDays: 30, ComparisonDays: 30})
	require.NoError(t, err)
	require.Len(t, trends, 2)

	baltico := trends[0]
	assert.Equal(t, "BALTICO 51X51", baltico.SKU, "largest current volume first")
	assert.True(t, baltico.CurrentM2.Equal(decimal.NewFromInt(600)))
	assert.True(t, baltico.ComparisonM2.Equal(decimal.NewFromInt(300)))
	assert.True(t, baltico.ChangePct.Equal(decimal.NewFromInt(100)), "got %s", baltico.ChangePct)
	assert.True(t, baltico.RevenueUSD.Equal(decimal.NewFromInt(1200)))

	carrara := trends[1]
	assert.True(t, carrara.ChangePct.Equal(decimal.NewFromInt(-50)), "got %s", carrara.ChangePct)
}

func TestProductTrendsIgnoresUnknownProducts(t *testing.T) {
	records := []*sales.Record{
		saleRecord(99, shared.Date(2026, time.February, 9), 500, 1000, "CERAMICAS GT"),
	}
	svc := intelligenceService(records, nil, nil)

	trends, err := svc.ProductTrends(context.Background(), TrendQuery{})
	require.NoError(t, err)
	assert.Empty(t, trends)
}

func TestTrendQueryValidation(t *testing.T) {
	svc := intelligenceService(nil, nil, nil)

	_, err := svc.ProductTrends(context.Background(), TrendQuery{PeriodDays: 400})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = svc.CustomerInsights(context.Background(), TrendQuery{Limit: 101})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestCustomerInsightsStatuses(t *testing.T) {
	patterns := []*sales.CustomerPattern{
		{
			CustomerNormalized: "CERAMICAS GT",
			Tier:               sales.TierA,
			TotalRevenueUSD:    decimal.NewFromInt(90000),
			AvgGapDays:         30,
			LastOrderDate:      analyticsToday.AddDate(0, 0, -60), // 30 days overdue
		},
		{
			CustomerNormalized: "AZULEJOS SV",
			Tier:               sales.TierB,
			TotalRevenueUSD:    decimal.NewFromInt(40000),
			AvgGapDays:         30,
			LastOrderDate:      analyticsToday.AddDate(0, 0, -20), // due in 10 days
		},
		{
			CustomerNormalized: "PISOS HN",
			Tier:               sales.TierC,
			TotalRevenueUSD:    decimal.NewFromInt(5000),
			AvgGapDays:         60,
			LastOrderDate:      analyticsToday.AddDate(0, 0, -5), // due in 55 days
		},
	}
	svc := intelligenceService(nil, patterns, nil)

	insights, err := svc.CustomerInsights(context.Background(), TrendQuery{})
	require.NoError(t, err)
	require.Len(t, insights, 3)

	assert.Equal(t, "CERAMICAS GT", insights[0].Customer, "highest revenue first")
	assert.Equal(t, "overdue", insights[0].Status)
	assert.Equal(t, 30, insights[0].DaysOverdue)

	assert.Equal(t, "due_soon", insights[1].Status)
	assert.Equal(t, "active", insights[2].Status)
}

func TestCountriesInfersFromNameSuffix(t *testing.T) {
	records := []*sales.Record{
		saleRecord(1, shared.Date(2026, time.February, 9), 300, 600, "CERAMICAS GT"),
		saleRecord(1, shared.Date(2026, time.February, 16), 200, 400, "DISTRIBUIDORA GT"),
		saleRecord(2, shared.Date(2026, time.February, 9), 100, 200, "AZULEJOS SV"),
		saleRecord(2, shared.Date(2026, time.February, 9), 50, 100, "SIN PAIS"),
	}
	svc := intelligenceService(records, nil, nil)

	countries, err := svc.Countries(context.Background(), TrendQuery{})
	require.NoError(t, err)
	require.Len(t, countries, 3)

	assert.Equal(t, "Guatemala", countries[0].Country)
	assert.Equal(t, 2, countries[0].Customers)
	assert.True(t, countries[0].QuantityM2.Equal(decimal.NewFromInt(500)))

	assert.Equal(t, "El Salvador", countries[1].Country)
	assert.Equal(t, "unknown", countries[2].Country)
}

func TestDashboardSummaryRollsUp(t *testing.T) {
	products := []*catalog.Product{
		{ID: 1, SKU: "BALTICO 51X51", Active: true},
		{ID: 2, SKU: "CARRARA 51X51", Active: true},
	}
	records := []*sales.Record{
		saleRecord(1, shared.Date(2026, time.February, 9), 600, 1200, "CERAMICAS GT"),
		saleRecord(1, shared.Date(2026, time.January, 12), 300, 600, "CERAMICAS GT"),
		saleRecord(2, shared.Date(2026, time.February, 16), 200, 400, "AZULEJOS SV"),
		saleRecord(2, shared.Date(2026, time.January, 12), 400, 800, "AZULEJOS SV"),
	}
	patterns := []*sales.CustomerPattern{
		{
			CustomerNormalized: "CERAMICAS GT",
			Tier:               sales.TierA,
			TotalRevenueUSD:    decimal.NewFromInt(90000),
			AvgGapDays:         30,
			LastOrderDate:      analyticsToday.AddDate(0, 0, -60),
		},
	}
	svc := intelligenceService(records, patterns, products)

	dash, err := svc.DashboardSummary(context.Background(), TrendQuery{PeriodDays: 30, ComparisonDays: 30})
	require.NoError(t, err)

	assert.True(t, dash.TotalM2.Equal(decimal.NewFromInt(800)))
	assert.True(t, dash.TotalRevenueUSD.Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, 1, dash.TrendingUp)
	assert.Equal(t, 1, dash.TrendingDown)
	assert.Equal(t, 1, dash.OverdueCustomers)
	assert.Len(t, dash.TopProducts, 2)
	assert.Equal(t, "BALTICO 51X51", dash.TopProducts[0].SKU)
}
