package orderbuilder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/application/analytics"
	planningapp "github.com/andrescamacho/tileplanner-go/internal/application/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// ProductLookup resolves catalog products by SKU for export requests
type ProductLookup interface {
	FindBySKU(ctx context.Context, sku string) (*catalog.Product, error)
}

// PlanQuery are the order-builder request parameters
type PlanQuery struct {
	BoatID   string
	NumBLs   int
	Excluded []string
}

// ExportRequest is the body of an export call: the operator's final
// selection for one boat.
type ExportRequest struct {
	BoatDeparture time.Time
	Products      []ExportSelection
}

// ExportSelection is one chosen line of the export
type ExportSelection struct {
	SKU     string `json:"sku"`
	Pallets int    `json:"pallets"`
}

// ExportOrder is the resolved factory order ready for rendering
type ExportOrder struct {
	OrderDate     time.Time
	BoatDeparture time.Time
	Lines         []ExportLine
	TotalPallets  int
	TotalM2       decimal.Decimal
}

// ExportLine is one resolved product line
type ExportLine struct {
	SKU     string
	Pallets int
	M2      decimal.Decimal
}

// Service assembles the three-section order plan from the stores
type Service struct {
	horizon     *planningapp.HorizonService
	factories   planningapp.FactoryReader
	products    planningapp.ProductReader
	lookup      ProductLookup
	inventory   planningapp.InventoryReader
	production  planningapp.ProductionReader
	patterns    planningapp.PatternReader
	velocity    *analytics.VelocityAnalyzer
	builder     *Builder
	liquidation LiquidationConfig
	clock       shared.Clock
}

// NewService wires the order-builder service
func NewService(
	horizon *planningapp.HorizonService,
	factories planningapp.FactoryReader,
	products planningapp.ProductReader,
	lookup ProductLookup,
	inv planningapp.InventoryReader,
	production planningapp.ProductionReader,
	patterns planningapp.PatternReader,
	velocity *analytics.VelocityAnalyzer,
	builder *Builder,
	liquidation LiquidationConfig,
	clock shared.Clock,
) *Service {
	return &Service{
		horizon:     horizon,
		factories:   factories,
		products:    products,
		lookup:      lookup,
		inventory:   inv,
		production:  production,
		patterns:    patterns,
		velocity:    velocity,
		builder:     builder,
		liquidation: liquidation,
		clock:       clock,
	}
}

// planHorizonMonths is how far the builder looks ahead when picking
// target and following boats.
const planHorizonMonths = 3

// GetPlan builds the three-section plan for the target boat. An empty
// boat ID targets the next departure.
func (s *Service) GetPlan(ctx context.Context, query PlanQuery) (*BuildResult, error) {
	if query.NumBLs == 0 {
		query.NumBLs = 1
	}
	if query.NumBLs < 1 || query.NumBLs > 5 {
		return nil, shared.NewValidationError("num_bls", "must be between 1 and 5")
	}

	factory, err := s.factories.DefaultActive(ctx)
	if err != nil {
		return nil, err
	}

	horizon, err := s.horizon.GetHorizon(ctx, factory.ID, planHorizonMonths)
	if err != nil {
		return nil, err
	}
	projection, err := pickProjection(horizon, query.BoatID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindActiveByFactory(ctx, factory.ID)
	if err != nil {
		return nil, err
	}
	productIDs := make([]int, len(products))
	productsByID := make(map[int]*catalog.Product, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
		productsByID[p.ID] = p
	}

	snapshots, err := s.inventory.LatestSnapshots(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	rows, err := s.production.FindByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	production := make(map[int][]*inventory.ProductionRow)
	for _, row := range rows {
		production[row.ProductID] = append(production[row.ProductID], row)
	}
	metrics, err := s.velocity.Analyze(ctx, products)
	if err != nil {
		return nil, err
	}

	patterns, err := s.patterns.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	primary := analytics.NewCustomerScorer(patterns).PrimaryCustomerBySKU()

	boats := horizonBoats(horizon)
	stockouts := s.classifyStockouts(products, snapshots, metrics, boats)

	excluded := make(map[string]bool, len(query.Excluded))
	for _, sku := range query.Excluded {
		excluded[sku] = true
	}

	result := s.builder.Build(BuildInput{
		Factory:          factory,
		Products:         productsByID,
		Projection:       projection,
		Boats:            boats,
		Snapshots:        snapshots,
		Production:       production,
		Metrics:          metrics,
		Stockouts:        stockouts,
		PrimaryCustomers: primary,
		NumBLs:           query.NumBLs,
		Excluded:         excluded,
	})
	result.Liquidation = LiquidationCandidates(products, snapshots, metrics, s.liquidation)
	return result, nil
}

// ResolveExport turns the operator's SKU/pallet selection into a fully
// priced factory order. Unknown SKUs and non-positive pallet counts
// are validation failures; zero lines never reach the sheet.
func (s *Service) ResolveExport(ctx context.Context, req ExportRequest, m2PerPallet decimal.Decimal) (*ExportOrder, error) {
	if req.BoatDeparture.IsZero() {
		return nil, shared.NewValidationError("boat_departure", "must be provided")
	}
	if len(req.Products) == 0 {
		return nil, shared.NewValidationError("products", "selection must have at least one line")
	}

	out := &ExportOrder{
		OrderDate:     s.clock.Today(),
		BoatDeparture: shared.Midnight(req.BoatDeparture),
	}
	for _, sel := range req.Products {
		if sel.Pallets < 0 {
			return nil, shared.NewValidationError("pallets", "must not be negative")
		}
		if sel.Pallets == 0 {
			continue
		}
		product, err := s.lookup.FindBySKU(ctx, sel.SKU)
		if err != nil {
			return nil, err
		}
		m2 := shared.Dec(sel.Pallets).Mul(product.PalletDivisor(m2PerPallet))
		out.Lines = append(out.Lines, ExportLine{
			SKU:     product.SKU,
			Pallets: sel.Pallets,
			M2:      m2,
		})
		out.TotalPallets += sel.Pallets
		out.TotalM2 = out.TotalM2.Add(m2)
	}
	if len(out.Lines) == 0 {
		return nil, shared.NewValidationError("products", "selection must have at least one non-zero line")
	}
	return out, nil
}

// StockoutSummary is the dashboard's priority-tier histogram
type StockoutSummary struct {
	HighPriority int                        `json:"high_priority"`
	Consider     int                        `json:"consider"`
	WellCovered  int                        `json:"well_covered"`
	YourCall     int                        `json:"your_call"`
	Products     []planning.ProductStockout `json:"products"`
}

// GetStockoutSummary classifies every active product of the default
// factory against the next two arrivals.
func (s *Service) GetStockoutSummary(ctx context.Context) (*StockoutSummary, error) {
	factory, err := s.factories.DefaultActive(ctx)
	if err != nil {
		return nil, err
	}
	horizon, err := s.horizon.GetHorizon(ctx, factory.ID, planHorizonMonths)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindActiveByFactory(ctx, factory.ID)
	if err != nil {
		return nil, err
	}
	productIDs := make([]int, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}
	snapshots, err := s.inventory.LatestSnapshots(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	metrics, err := s.velocity.Analyze(ctx, products)
	if err != nil {
		return nil, err
	}

	stockouts := s.classifyStockouts(products, snapshots, metrics, horizonBoats(horizon))

	summary := &StockoutSummary{}
	for _, p := range products {
		so := stockouts[p.ID]
		summary.Products = append(summary.Products, so)
		switch so.Tier {
		case planning.TierHighPriority:
			summary.HighPriority++
		case planning.TierConsider:
			summary.Consider++
		case planning.TierWellCovered:
			summary.WellCovered++
		default:
			summary.YourCall++
		}
	}
	return summary, nil
}

func pickProjection(horizon *planning.PlanningHorizon, boatID string) (*planning.BoatProjection, error) {
	if len(horizon.Boats) == 0 {
		return nil, shared.NewNotFoundError("boat", "next departure")
	}
	if boatID == "" {
		return &horizon.Boats[0], nil
	}
	for i := range horizon.Boats {
		if horizon.Boats[i].Boat.ID == boatID {
			return &horizon.Boats[i], nil
		}
	}
	return nil, shared.NewNotFoundError("boat", boatID)
}

func horizonBoats(horizon *planning.PlanningHorizon) []*schedule.Boat {
	boats := make([]*schedule.Boat, len(horizon.Boats))
	for i := range horizon.Boats {
		boats[i] = &horizon.Boats[i].Boat
	}
	return boats
}

// classifyStockouts runs the urgency-tier primitive against the next
// two arrivals in the merged schedule.
func (s *Service) classifyStockouts(
	products []*catalog.Product,
	snapshots map[int]*inventory.Snapshot,
	metrics map[int]*planning.TrendMetrics,
	boats []*schedule.Boat,
) map[int]planning.ProductStockout {
	today := s.clock.Today()

	var nextArrival, secondArrival *time.Time
	if len(boats) > 0 {
		nextArrival = &boats[0].ArrivalDate
	}
	if len(boats) > 1 {
		secondArrival = &boats[1].ArrivalDate
	}

	out := make(map[int]planning.ProductStockout, len(products))
	for _, p := range products {
		velocity := decimal.Zero
		if m := metrics[p.ID]; m != nil {
			velocity = m.DailyVelocityM2
		}
		out[p.ID] = analytics.ClassifyStockout(p, snapshots[p.ID], velocity, today, nextArrival, secondArrival)
	}
	return out
}
