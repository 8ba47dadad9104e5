package planning

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/application/analytics"
	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// Store ports for the horizon assembly. Satisfied by the gorm
// repositories; tests swap in fixtures.

type FactoryReader interface {
	FindByID(ctx context.Context, id int) (*catalog.Factory, error)
	DefaultActive(ctx context.Context) (*catalog.Factory, error)
}

type ProductReader interface {
	FindActiveByFactory(ctx context.Context, factoryID int) ([]*catalog.Product, error)
}

type RouteReader interface {
	FindActiveByOrigin(ctx context.Context, originPort string) ([]*catalog.ShippingRoute, error)
}

type BoatReader interface {
	FindByID(ctx context.Context, id string) (*schedule.Boat, error)
	FindBookable(ctx context.Context, originPort string, after, until time.Time) ([]*schedule.Boat, error)
}

type InventoryReader interface {
	LatestSnapshots(ctx context.Context, productIDs []int) (map[int]*inventory.Snapshot, error)
}

type ProductionReader interface {
	FindByProducts(ctx context.Context, productIDs []int) ([]*inventory.ProductionRow, error)
}

type DraftReader interface {
	FindByFactory(ctx context.Context, factoryID int) ([]*draft.Draft, error)
	FindCommitted(ctx context.Context) ([]*draft.Draft, error)
}

type PatternReader interface {
	FindAll(ctx context.Context) ([]*sales.CustomerPattern, error)
}

// HorizonService assembles the multi-month forward view for one
// factory: merged boats, the supply cascade, and the factory-order
// signal, from a single consistent read of the stores.
type HorizonService struct {
	factories  FactoryReader
	products   ProductReader
	routes     RouteReader
	boats      BoatReader
	inventory  InventoryReader
	production ProductionReader
	drafts     DraftReader
	patterns   PatternReader

	velocity  *analytics.VelocityAnalyzer
	merger    *BoatMerger
	simulator *Simulator
	signals   *SignalAnalyzer
	clock     shared.Clock
	cfg       SimulatorConfig
}

// NewHorizonService wires the horizon assembly
func NewHorizonService(
	factories FactoryReader,
	products ProductReader,
	routes RouteReader,
	boats BoatReader,
	inv InventoryReader,
	production ProductionReader,
	drafts DraftReader,
	patterns PatternReader,
	velocity *analytics.VelocityAnalyzer,
	merger *BoatMerger,
	simulator *Simulator,
	signals *SignalAnalyzer,
	clock shared.Clock,
	cfg SimulatorConfig,
) *HorizonService {
	return &HorizonService{
		factories:  factories,
		products:   products,
		routes:     routes,
		boats:      boats,
		inventory:  inv,
		production: production,
		drafts:     drafts,
		patterns:   patterns,
		velocity:   velocity,
		merger:     merger,
		simulator:  simulator,
		signals:    signals,
		clock:      clock,
		cfg:        cfg,
	}
}

// GetHorizon builds the planning horizon for a factory over the given
// number of months.
func (s *HorizonService) GetHorizon(ctx context.Context, factoryID, horizonMonths int) (*planning.PlanningHorizon, error) {
	today := s.clock.Today()
	horizonDays := horizonMonths * 30

	factory, err := s.factories.FindByID(ctx, factoryID)
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

	routes, err := s.routes.FindActiveByOrigin(ctx, factory.OriginPort)
	if err != nil {
		return nil, err
	}
	realBoats, err := s.boats.FindBookable(ctx, factory.OriginPort, today, today.AddDate(0, 0, horizonDays))
	if err != nil {
		return nil, err
	}
	merged := s.merger.Merge(realBoats, routes, horizonDays)

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
	scorer := analytics.NewCustomerScorer(patterns)
	scores := scorer.ScoresBySKU(today)
	var expectedDue map[string]decimal.Decimal
	if s.cfg.CustomerDemandInGap {
		expectedDue = scorer.ExpectedDueM2BySKU(today)
	}

	factoryDrafts, err := s.drafts.FindByFactory(ctx, factory.ID)
	if err != nil {
		return nil, err
	}
	draftsByBoat := make(map[string]*draft.Draft, len(factoryDrafts))
	for _, d := range factoryDrafts {
		if d.Status() != draft.StatusCancelled {
			draftsByBoat[d.BoatID()] = d
		}
	}

	transit, committed, err := s.resolveCommittedTransit(ctx, products, merged)
	if err != nil {
		return nil, err
	}

	input := SimulatorInput{
		Factory:        factory,
		Products:       products,
		Boats:          merged,
		Snapshots:      snapshots,
		Production:     production,
		Metrics:        metrics,
		DraftsByBoat:   draftsByBoat,
		TransitEntries: transit,
		CustomerScores: scores,
		ExpectedDueM2:  expectedDue,
	}

	horizon := &planning.PlanningHorizon{
		FactoryID:     factory.ID,
		FactoryName:   factory.Name,
		HorizonMonths: horizonMonths,
		GeneratedAt:   s.clock.Now(),
		Boats:         s.simulator.Simulate(input),
	}
	horizon.OrderSignal = s.signals.Analyze(SignalInput{
		Factory:         factory,
		Products:        products,
		Snapshots:       snapshots,
		Production:      production,
		Metrics:         metrics,
		CommittedDrafts: committed,
		TransitEntries:  transit,
		Boats:           merged,
	})
	return horizon, nil
}

// resolveCommittedTransit converts ordered/confirmed drafts sailing on
// boats outside this horizon into per-product per-arrival-date supply
// entries. Drafts on horizon boats are resolved in place by the
// cascade and must not double count as transit.
func (s *HorizonService) resolveCommittedTransit(
	ctx context.Context,
	products []*catalog.Product,
	horizonBoats []*schedule.Boat,
) (map[int][]TransitEntry, []*draft.Draft, error) {
	committed, err := s.drafts.FindCommitted(ctx)
	if err != nil {
		return nil, nil, err
	}

	inHorizon := make(map[string]bool, len(horizonBoats))
	for _, b := range horizonBoats {
		inHorizon[b.ID] = true
	}
	byProduct := make(map[int]*catalog.Product, len(products))
	for _, p := range products {
		byProduct[p.ID] = p
	}

	entries := make(map[int][]TransitEntry)
	for _, d := range committed {
		if inHorizon[d.BoatID()] {
			continue
		}
		boat, err := s.boats.FindByID(ctx, d.BoatID())
		if err != nil {
			// Drafts committed against an estimated sailing have no
			// stored boat row; they cannot feed transit.
			if shared.IsNotFound(err) {
				continue
			}
			return nil, nil, err
		}
		for _, item := range d.Items() {
			p, ok := byProduct[item.ProductID]
			if !ok || item.SelectedPallets <= 0 {
				continue
			}
			m2 := shared.Dec(item.SelectedPallets).Mul(p.PalletDivisor(s.cfg.M2PerPallet))
			entries[item.ProductID] = append(entries[item.ProductID], TransitEntry{
				ArrivalDate: boat.ArrivalDate,
				M2:          m2,
			})
		}
	}
	return entries, committed, nil
}
