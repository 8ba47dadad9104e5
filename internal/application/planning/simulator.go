package planning

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// TransitEntry is one committed-draft arrival: quantity that lands in
// the warehouse on a known date and feeds the first boat it can reach.
type TransitEntry struct {
	ArrivalDate time.Time
	M2          decimal.Decimal
}

// SimulatorConfig carries the planning constants the cascade needs
type SimulatorConfig struct {
	M2PerPallet         decimal.Decimal
	WarehouseBufferDays int
	OrderingCycleDays   int
	CustomerDemandInGap bool
}

// SimulatorInput is the resolved per-factory world the cascade walks.
// Boats must already be merged and sorted by departure.
type SimulatorInput struct {
	Factory        *catalog.Factory
	Products       []*catalog.Product
	Boats          []*schedule.Boat
	Snapshots      map[int]*inventory.Snapshot
	Production     map[int][]*inventory.ProductionRow
	Metrics        map[int]*planning.TrendMetrics
	DraftsByBoat   map[string]*draft.Draft
	TransitEntries map[int][]TransitEntry
	CustomerScores map[string]int
	ExpectedDueM2  map[string]decimal.Decimal
}

// Simulator walks the merged boat sequence projecting per-SKU stock at
// each boat's warehouse-arrival date. Supply sources are consumed with
// strict one-time rules, and earlier-boat selections cascade into every
// later boat's baseline.
type Simulator struct {
	deadlines *DeadlineEngine
	clock     shared.Clock
	cfg       SimulatorConfig
}

// NewSimulator creates a simulator over the given deadline engine
func NewSimulator(deadlines *DeadlineEngine, clock shared.Clock, cfg SimulatorConfig) *Simulator {
	return &Simulator{deadlines: deadlines, clock: clock, cfg: cfg}
}

// productState is the running per-product position as boats are walked
type productState struct {
	stock              decimal.Decimal
	siesaConsumed      bool
	productionConsumed map[int]bool
	transit            []TransitEntry
}

// Simulate produces one projection per boat. The per-product running
// stock starts at the warehouse position; SIESA flows to the first
// boat it can physically reach, each production row feeds at most one
// boat, and committed-draft transit entries are popped as they arrive.
func (s *Simulator) Simulate(in SimulatorInput) []planning.BoatProjection {
	today := s.clock.Today()

	states := make(map[int]*productState, len(in.Products))
	for _, p := range in.Products {
		st := &productState{productionConsumed: make(map[int]bool)}
		snap := in.Snapshots[p.ID]
		if snap != nil {
			st.stock = snap.WarehouseM2
		}
		st.transit = append(st.transit, in.TransitEntries[p.ID]...)
		sort.SliceStable(st.transit, func(i, j int) bool {
			return st.transit[i].ArrivalDate.Before(st.transit[j].ArrivalDate)
		})

		// The lump-sum in-transit residual beyond the tracked draft
		// entries is already on the water; it reaches whichever boat
		// comes first.
		if snap != nil {
			var tracked decimal.Decimal
			for _, e := range st.transit {
				tracked = tracked.Add(e.M2)
			}
			residual := shared.MaxZero(snap.InTransitM2.Sub(tracked))
			if residual.Sign() > 0 {
				st.transit = append([]TransitEntry{{
					ArrivalDate: today.AddDate(0, 0, -s.cfg.WarehouseBufferDays),
					M2:          residual,
				}}, st.transit...)
			}
		}
		states[p.ID] = st
	}

	hasScheduled := false
	for _, rows := range in.Production {
		for _, r := range rows {
			if r.CanAddMore() {
				hasScheduled = true
			}
		}
	}

	projections := make([]planning.BoatProjection, 0, len(in.Boats))
	for _, boat := range in.Boats {
		proj := s.simulateBoat(in, boat, states, hasScheduled, today)
		projections = append(projections, proj)
	}

	s.annotateDraftLocks(projections)
	s.annotateEarlierDrafts(projections)
	s.annotateStability(projections)

	return projections
}

func (s *Simulator) simulateBoat(
	in SimulatorInput,
	boat *schedule.Boat,
	states map[int]*productState,
	hasScheduled bool,
	today time.Time,
) planning.BoatProjection {
	departure := boat.DepartureDate
	daysUntilWarehouse := shared.DaysBetween(today, boat.ArrivalDate) + s.cfg.WarehouseBufferDays
	if daysUntilWarehouse < 1 {
		daysUntilWarehouse = 1
	}
	daysUntilDec := shared.Dec(daysUntilWarehouse)

	boatDraft := in.DraftsByBoat[boat.ID]

	proj := planning.BoatProjection{
		Boat:       *boat,
		DaysOut:    shared.DaysBetween(today, departure),
		Deadlines:  s.deadlines.Compute(in.Factory, departure, boat.ArrivalDate, hasScheduled, today),
		IsActive:   boatDraft != nil && boatDraft.Status() != draft.StatusCancelled,
	}
	proj.Confidence = planning.ConfidenceForDaysOut(proj.DaysOut)
	if boatDraft != nil {
		id := boatDraft.ID()
		proj.DraftID = &id
		proj.DraftStatus = boatDraft.Status()
		if boatDraft.Status() == draft.StatusActionNeeded {
			proj.NeedsReview = true
			proj.ReviewReason = "draft flagged for review"
		}
	}

	for _, p := range in.Products {
		st := states[p.ID]
		divisor := p.PalletDivisor(s.cfg.M2PerPallet)
		snap := in.Snapshots[p.ID]
		m := in.Metrics[p.ID]

		velocity := decimal.Zero
		if m != nil {
			velocity = m.DailyVelocityM2
		}

		pp := planning.ProductProjection{
			ProductID:       p.ID,
			SKU:             p.SKU,
			StockBeforeM2:   st.stock,
			DailyVelocityM2: velocity,
			CustomerDemand:  in.CustomerScores[p.SKU],
		}
		if m != nil {
			pp.VelocityTrend = m.VelocityTrendSignal
			pp.TrendDirection = m.Direction
			pp.VelocityConfidence = m.Confidence
		}

		// A. SIESA finished goods, one time, first boat they can reach.
		if snap != nil && !st.siesaConsumed && in.Factory.HasSiesaStep() {
			reachable := today.AddDate(0, 0, in.Factory.TransportToPortDays)
			if !departure.Before(reachable) {
				pp.SiesaAppliedM2 = snap.FactoryAvailableM2
				st.siesaConsumed = true
			}
		}

		// B. Production pipeline rows, one time each.
		for _, row := range in.Production[p.ID] {
			if st.productionConsumed[row.ID] {
				continue
			}
			atPort := row.EstimatedDeliveryDate.AddDate(0, 0, in.Factory.TransportToPortDays)
			if !atPort.After(departure) {
				pp.ProductionM2 = pp.ProductionM2.Add(row.Contribution())
				st.productionConsumed[row.ID] = true
			}
		}

		// C. Committed-draft arrivals that reach the warehouse in time.
		remaining := st.transit[:0]
		for _, entry := range st.transit {
			inWarehouse := entry.ArrivalDate.AddDate(0, 0, s.cfg.WarehouseBufferDays)
			if !inWarehouse.After(departure) {
				pp.TransitAppliedM2 = pp.TransitAppliedM2.Add(entry.M2)
			} else {
				remaining = append(remaining, entry)
			}
		}
		st.transit = remaining

		// D. Project forward to the warehouse-arrival date.
		pp.EffectiveStockM2 = st.stock.Add(pp.SiesaAppliedM2).Add(pp.ProductionM2).Add(pp.TransitAppliedM2)
		pp.ProjectedStockM2 = pp.EffectiveStockM2.Sub(velocity.Mul(daysUntilDec))
		if velocity.Sign() > 0 {
			pp.DaysOfStock = pp.ProjectedStockM2.Div(velocity).Round(1)
		} else {
			pp.InfiniteCoverage = true
		}

		// E. Demand resolution: committed drafts are authoritative,
		// tentative selections still cascade, otherwise fill the
		// coverage gap.
		var item *draft.Item
		if boatDraft != nil && boatDraft.Status() != draft.StatusCancelled {
			item = boatDraft.ItemForProduct(p.ID)
		}
		switch {
		case item != nil && boatDraft.Status().IsCommitted():
			pp.SuggestedPallets = item.SelectedPallets
			pp.IsCommitted = true
			pp.FromDraft = true
		case item != nil && item.SelectedPallets > 0:
			pp.SuggestedPallets = item.SelectedPallets
			pp.FromDraft = true
		default:
			coverageTarget := shared.Dec(s.cfg.OrderingCycleDays + daysUntilWarehouse)
			demand := velocity.Mul(coverageTarget)
			if s.cfg.CustomerDemandInGap {
				demand = demand.Add(in.ExpectedDueM2[p.SKU])
			}
			pp.CoverageGapM2 = shared.MaxZero(demand.Sub(pp.ProjectedStockM2))
			pp.SuggestedPallets = shared.CeilDiv(pp.CoverageGapM2, divisor)
		}
		pp.SuggestedM2 = shared.Dec(pp.SuggestedPallets).Mul(divisor)

		// F. Cascade the selection into the next boat's baseline.
		st.stock = pp.ProjectedStockM2
		if pp.SuggestedPallets > 0 {
			st.stock = st.stock.Add(pp.SuggestedM2)
		}

		// G. Urgency.
		pp.Urgency = planning.ClassifyUrgency(pp.DaysOfStock, pp.InfiniteCoverage)
		proj.Urgencies.Add(pp.Urgency)

		proj.ProjectedPalletsTotal += pp.SuggestedPallets
		proj.Products = append(proj.Products, pp)
	}

	sort.SliceStable(proj.Products, func(i, j int) bool {
		a, b := proj.Products[i], proj.Products[j]
		if a.Urgency.Rank() != b.Urgency.Rank() {
			return a.Urgency.Rank() < b.Urgency.Rank()
		}
		if a.CustomerDemand != b.CustomerDemand {
			return a.CustomerDemand > b.CustomerDemand
		}
		return a.DailyVelocityM2.GreaterThan(b.DailyVelocityM2)
	})

	proj.ProjectedPalletsMin, proj.ProjectedPalletsMax = proj.Confidence.Range(proj.ProjectedPalletsTotal)
	return proj
}

// annotateDraftLocks marks a boat locked when any later boat already
// has a stored draft; editing an earlier boat would invalidate the
// later baselines.
func (s *Simulator) annotateDraftLocks(projections []planning.BoatProjection) {
	laterHasDraft := false
	for i := len(projections) - 1; i >= 0; i-- {
		projections[i].IsDraftLocked = laterHasDraft
		if projections[i].DraftID != nil {
			laterHasDraft = true
		}
	}
}

func (s *Simulator) annotateEarlierDrafts(projections []planning.BoatProjection) {
	type earlier struct {
		vessel  string
		pallets int
	}
	var seen []earlier
	for i := range projections {
		if len(seen) > 0 {
			total := 0
			for _, e := range seen {
				total += e.pallets
			}
			ctx := &planning.EarlierDraftContext{Count: len(seen), TotalPallets: total}
			if len(seen) == 1 {
				ctx.Summary = fmt.Sprintf("based on draft of %s: %d pallets", seen[0].vessel, seen[0].pallets)
			} else {
				ctx.Summary = fmt.Sprintf("based on %d earlier drafts, total %d pallets", len(seen), total)
			}
			projections[i].HasEarlierDrafts = true
			projections[i].EarlierDrafts = ctx
		}
		if projections[i].DraftID != nil {
			pallets := 0
			for _, pp := range projections[i].Products {
				if pp.FromDraft {
					pallets += pp.SuggestedPallets
				}
			}
			seen = append(seen, earlier{vessel: projections[i].Boat.VesselName, pallets: pallets})
		}
	}
}

// annotateStability classifies how each boat moves SKUs toward the
// 30-day coverage line. Coverage after a boat counts its own suggested
// fill; a SKU still short is recovering if any later boat brings it
// supply, blocked otherwise.
func (s *Simulator) annotateStability(projections []planning.BoatProjection) {
	threshold := decimal.NewFromInt(30)

	covered := func(pp planning.ProductProjection, after bool) bool {
		if pp.InfiniteCoverage {
			return true
		}
		if pp.DailyVelocityM2.Sign() <= 0 {
			return true
		}
		stock := pp.ProjectedStockM2
		if after {
			stock = stock.Add(pp.SuggestedM2)
		}
		return stock.Div(pp.DailyVelocityM2).GreaterThanOrEqual(threshold)
	}

	// laterSupply[i] holds SKUs that receive supply on a boat after i.
	laterSupply := make([]map[string]bool, len(projections))
	acc := make(map[string]bool)
	for i := len(projections) - 1; i >= 0; i-- {
		snapshot := make(map[string]bool, len(acc))
		for sku := range acc {
			snapshot[sku] = true
		}
		laterSupply[i] = snapshot
		for _, pp := range projections[i].Products {
			supply := pp.SiesaAppliedM2.Add(pp.ProductionM2).Add(pp.TransitAppliedM2).Add(pp.SuggestedM2)
			if supply.Sign() > 0 {
				acc[pp.SKU] = true
			}
		}
	}

	for i := range projections {
		impact := planning.StabilityImpact{
			Stabilized: []string{},
			Recovering: []string{},
			Blocked:    []string{},
		}
		before, after := 0, 0
		for _, pp := range projections[i].Products {
			wasCovered := covered(pp, false)
			isCovered := covered(pp, true)
			if wasCovered {
				before++
			}
			if isCovered {
				after++
				if !wasCovered {
					impact.Stabilized = append(impact.Stabilized, pp.SKU)
				}
				continue
			}
			if laterSupply[i][pp.SKU] {
				impact.Recovering = append(impact.Recovering, pp.SKU)
			} else {
				impact.Blocked = append(impact.Blocked, pp.SKU)
			}
		}
		if n := len(projections[i].Products); n > 0 {
			impact.ProgressBeforePct = shared.Dec(before * 100).Div(shared.Dec(n)).Round(1)
			impact.ProgressAfterPct = shared.Dec(after * 100).Div(shared.Dec(n)).Round(1)
		}
		projections[i].Stability = impact
	}
}
