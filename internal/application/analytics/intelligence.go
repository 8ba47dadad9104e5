package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// dueSoonWindowDays flags customers whose expected reorder date is
// within this many days ahead.
const dueSoonWindowDays = 14

// PatternReader loads the full customer-pattern set
type PatternReader interface {
	FindAll(ctx context.Context) ([]*sales.CustomerPattern, error)
}

// ProductFinder loads the active catalog
type ProductFinder interface {
	FindAllActive(ctx context.Context) ([]*catalog.Product, error)
}

// TrendQuery carries the window parameters of the intelligence
// endpoints. Zero values fall back to defaults in Normalize.
type TrendQuery struct {
	PeriodDays     int
	ComparisonDays int
	Limit          int
}

// Normalize applies defaults and rejects out-of-range windows
func (q TrendQuery) Normalize() (TrendQuery, error) {
	if q.PeriodDays == 0 {
		q.PeriodDays = 30
	}
	if q.ComparisonDays == 0 {
		q.ComparisonDays = q.PeriodDays
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.PeriodDays < 1 || q.PeriodDays > 365 {
		return q, shared.NewValidationError("period_days", "must be between 1 and 365")
	}
	if q.ComparisonDays < 1 || q.ComparisonDays > 365 {
		return q, shared.NewValidationError("comparison_days", "must be between 1 and 365")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return q, shared.NewValidationError("limit", "must be between 1 and 100")
	}
	return q, nil
}

// ProductTrend compares one product's current window against the
// preceding comparison window.
type ProductTrend struct {
	ProductID    int             `json:"product_id"`
	SKU          string          `json:"sku"`
	CurrentM2    decimal.Decimal `json:"current_m2"`
	ComparisonM2 decimal.Decimal `json:"comparison_m2"`
	ChangePct    decimal.Decimal `json:"change_pct"`
	RevenueUSD   decimal.Decimal `json:"revenue_usd"`
	WeeklyAvgM2  decimal.Decimal `json:"weekly_avg_m2"`
}

// CustomerInsight is one customer's reorder rhythm as of today
type CustomerInsight struct {
	Customer          string          `json:"customer"`
	Tier              string          `json:"tier"`
	TotalRevenueUSD   decimal.Decimal `json:"total_revenue_usd"`
	AvgGapDays        int             `json:"avg_gap_days"`
	LastOrderDate     time.Time       `json:"last_order_date"`
	ExpectedNextOrder time.Time       `json:"expected_next_order"`
	DaysOverdue       int             `json:"days_overdue"`
	Status            string          `json:"status"` // active | due_soon | overdue
	AvgOrderM2        decimal.Decimal `json:"avg_order_m2"`
	TopProducts       []string        `json:"top_products"`
}

// CountryBreakdown aggregates demand by destination country. The
// country is inferred from the customer name's trailing country code;
// names without one land in "unknown".
type CountryBreakdown struct {
	Country    string          `json:"country"`
	Customers  int             `json:"customers"`
	QuantityM2 decimal.Decimal `json:"quantity_m2"`
	RevenueUSD decimal.Decimal `json:"revenue_usd"`
}

// Dashboard is the intelligence roll-up for the landing view
type Dashboard struct {
	PeriodDays        int             `json:"period_days"`
	TotalM2           decimal.Decimal `json:"total_m2"`
	TotalRevenueUSD   decimal.Decimal `json:"total_revenue_usd"`
	ActiveCustomers   int             `json:"active_customers"`
	DueSoonCustomers  int             `json:"due_soon_customers"`
	OverdueCustomers  int             `json:"overdue_customers"`
	TrendingUp        int             `json:"trending_up"`
	TrendingDown      int             `json:"trending_down"`
	TopProducts       []ProductTrend  `json:"top_products"`
}

// IntelligenceService answers the trend-aggregate endpoints
type IntelligenceService struct {
	sales    SalesReader
	patterns PatternReader
	products ProductFinder
	clock    shared.Clock
}

// NewIntelligenceService wires the intelligence service
func NewIntelligenceService(salesReader SalesReader, patterns PatternReader, products ProductFinder, clock shared.Clock) *IntelligenceService {
	return &IntelligenceService{
		sales:    salesReader,
		patterns: patterns,
		products: products,
		clock:    clock,
	}
}

// ProductTrends ranks products by current-window volume and compares
// each against the preceding comparison window.
func (s *IntelligenceService) ProductTrends(ctx context.Context, query TrendQuery) ([]ProductTrend, error) {
	q, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	currentStart := today.AddDate(0, 0, -q.PeriodDays)
	comparisonStart := currentStart.AddDate(0, 0, -q.ComparisonDays)

	records, err := s.sales.FindInWindow(ctx, comparisonStart, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	skuByID := make(map[int]string, len(products))
	for _, p := range products {
		skuByID[p.ID] = p.SKU
	}

	byProduct := make(map[int]*ProductTrend)
	for _, rec := range records {
		sku, known := skuByID[rec.ProductID]
		if !known {
			continue
		}
		trend := byProduct[rec.ProductID]
		if trend == nil {
			trend = &ProductTrend{ProductID: rec.ProductID, SKU: sku}
			byProduct[rec.ProductID] = trend
		}
		if rec.WeekStart.Before(currentStart) {
			trend.ComparisonM2 = trend.ComparisonM2.Add(rec.QuantityM2)
		} else {
			trend.CurrentM2 = trend.CurrentM2.Add(rec.QuantityM2)
			trend.RevenueUSD = trend.RevenueUSD.Add(rec.TotalPriceUSD)
		}
	}

	weeks := decimal.NewFromInt(int64(q.PeriodDays)).Div(decimal.NewFromInt(7))
	out := make([]ProductTrend, 0, len(byProduct))
	for _, trend := range byProduct {
		trend.ChangePct = changePct(trend.CurrentM2, trend.ComparisonM2)
		trend.WeeklyAvgM2 = trend.CurrentM2.Div(weeks).Round(shared.QuantityScale)
		out = append(out, *trend)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CurrentM2.Equal(out[j].CurrentM2) {
			return out[i].CurrentM2.GreaterThan(out[j].CurrentM2)
		}
		return out[i].SKU < out[j].SKU
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// CustomerInsights reports each customer's reorder status, highest
// revenue first.
func (s *IntelligenceService) CustomerInsights(ctx context.Context, query TrendQuery) ([]CustomerInsight, error) {
	q, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	patterns, err := s.patterns.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	out := make([]CustomerInsight, 0, len(patterns))
	for _, p := range patterns {
		insight := CustomerInsight{
			Customer:          p.CustomerNormalized,
			Tier:              string(p.Tier),
			TotalRevenueUSD:   p.TotalRevenueUSD,
			AvgGapDays:        p.AvgGapDays,
			LastOrderDate:     p.LastOrderDate,
			ExpectedNextOrder: p.LastOrderDate.AddDate(0, 0, p.AvgGapDays),
			DaysOverdue:       p.DaysOverdue(today),
			AvgOrderM2:        p.AvgOrderM2,
			TopProducts:       p.TopProducts,
		}
		insight.Status = customerStatus(insight.ExpectedNextOrder, insight.DaysOverdue, today)
		out = append(out, insight)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalRevenueUSD.Equal(out[j].TotalRevenueUSD) {
			return out[i].TotalRevenueUSD.GreaterThan(out[j].TotalRevenueUSD)
		}
		return out[i].Customer < out[j].Customer
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Countries aggregates the current window's sales by destination
// country, largest volume first.
func (s *IntelligenceService) Countries(ctx context.Context, query TrendQuery) ([]CountryBreakdown, error) {
	q, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	records, err := s.sales.FindInWindow(ctx, today.AddDate(0, 0, -q.PeriodDays), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	type accum struct {
		customers  map[string]struct{}
		quantityM2 decimal.Decimal
		revenueUSD decimal.Decimal
	}
	byCountry := make(map[string]*accum)
	for _, rec := range records {
		country := countryOf(rec.CustomerNormalized)
		acc := byCountry[country]
		if acc == nil {
			acc = &accum{customers: make(map[string]struct{})}
			byCountry[country] = acc
		}
		if rec.CustomerNormalized != "" {
			acc.customers[rec.CustomerNormalized] = struct{}{}
		}
		acc.quantityM2 = acc.quantityM2.Add(rec.QuantityM2)
		acc.revenueUSD = acc.revenueUSD.Add(rec.TotalPriceUSD)
	}

	out := make([]CountryBreakdown, 0, len(byCountry))
	for country, acc := range byCountry {
		out = append(out, CountryBreakdown{
			Country:    country,
			Customers:  len(acc.customers),
			QuantityM2: acc.quantityM2,
			RevenueUSD: acc.revenueUSD,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].QuantityM2.Equal(out[j].QuantityM2) {
			return out[i].QuantityM2.GreaterThan(out[j].QuantityM2)
		}
		return out[i].Country < out[j].Country
	})
	return out, nil
}

// DashboardSummary combines the trend and customer views into one
// landing-page payload.
func (s *IntelligenceService) DashboardSummary(ctx context.Context, query TrendQuery) (*Dashboard, error) {
	q, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	trends, err := s.ProductTrends(ctx, TrendQuery{PeriodDays: q.PeriodDays, ComparisonDays: q.ComparisonDays, Limit: 100})
	if err != nil {
		return nil, err
	}
	customers, err := s.CustomerInsights(ctx, TrendQuery{PeriodDays: q.PeriodDays, ComparisonDays: q.ComparisonDays, Limit: 100})
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{PeriodDays: q.PeriodDays}
	for _, trend := range trends {
		dash.TotalM2 = dash.TotalM2.Add(trend.CurrentM2)
		dash.TotalRevenueUSD = dash.TotalRevenueUSD.Add(trend.RevenueUSD)
		switch {
		case trend.ChangePct.GreaterThanOrEqual(decimal.NewFromInt(5)):
			dash.TrendingUp++
		case trend.ChangePct.LessThanOrEqual(decimal.NewFromInt(-5)):
			dash.TrendingDown++
		}
	}
	for _, c := range customers {
		switch c.Status {
		case "overdue":
			dash.OverdueCustomers++
		case "due_soon":
			dash.DueSoonCustomers++
		default:
			dash.ActiveCustomers++
		}
	}
	top := 5
	if len(trends) < top {
		top = len(trends)
	}
	dash.TopProducts = trends[:top]
	return dash, nil
}

func customerStatus(expectedNext time.Time, daysOverdue int, today time.Time) string {
	switch {
	case daysOverdue > 0:
		return "overdue"
	case !today.Before(expectedNext.AddDate(0, 0, -dueSoonWindowDays)):
		return "due_soon"
	default:
		return "active"
	}
}

// countryNames maps the trailing country codes that appear in
// normalized customer names to display names.
var countryNames = map[string]string{
	"GT": "Guatemala",
	"SV": "El Salvador",
	"HN": "Honduras",
	"NI": "Nicaragua",
	"CR": "Costa Rica",
	"PA": "Panama",
	"BZ": "Belize",
	"DO": "Dominican Republic",
	"US": "United States",
}

// countryOf infers the destination country from a normalized customer
// name's trailing code token.
func countryOf(customer string) string {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(customer)))
	if len(fields) == 0 {
		return "unknown"
	}
	last := strings.Trim(fields[len(fields)-1], "()")
	if name, ok := countryNames[last]; ok {
		return name
	}
	return "unknown"
}
