package planning

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// SignalAnalyzer computes the earliest date a new production run must
// be kicked off so SIESA finished goods do not deplete before
// replenishment can reach a boat.
type SignalAnalyzer struct {
	clock              shared.Clock
	m2PerPallet        decimal.Decimal
	orderingCycleDays  int
	minProductionGapM2 decimal.Decimal
}

// NewSignalAnalyzer creates an analyzer with the configured thresholds
func NewSignalAnalyzer(clock shared.Clock, m2PerPallet decimal.Decimal, orderingCycleDays int, minProductionGapM2 decimal.Decimal) *SignalAnalyzer {
	return &SignalAnalyzer{
		clock:              clock,
		m2PerPallet:        m2PerPallet,
		orderingCycleDays:  orderingCycleDays,
		minProductionGapM2: minProductionGapM2,
	}
}

// SignalInput is the resolved per-factory world the analyzer reads
type SignalInput struct {
	Factory         *catalog.Factory
	Products        []*catalog.Product
	Snapshots       map[int]*inventory.Snapshot
	Production      map[int][]*inventory.ProductionRow
	Metrics         map[int]*planning.TrendMetrics
	CommittedDrafts []*draft.Draft
	TransitEntries  map[int][]TransitEntry
	Boats           []*schedule.Boat
}

// Analyze produces the factory-level order signal. The factory's
// next-order date is the earliest order-by across products whose
// projected production gap clears the participation floor; the product
// that sets it is the limiting product.
func (a *SignalAnalyzer) Analyze(in SignalInput) planning.FactoryOrderSignal {
	today := a.clock.Today()
	lead := in.Factory.LeadTimeDays()

	targetBoat := firstBoatAfter(in.Boats, today.AddDate(0, 0, lead))

	committed := a.committedBySKU(in)

	signal := planning.FactoryOrderSignal{
		State:    planning.SignalOnTrack,
		Products: []planning.ProductSignal{},
	}
	if targetBoat != nil {
		signal.TargetBoatID = targetBoat.ID
		dep := targetBoat.DepartureDate
		signal.TargetDeparture = &dep
	}

	var limiting *planning.ProductSignal
	for _, p := range in.Products {
		ps := a.analyzeProduct(in, p, committed[p.ID], today, lead)
		signal.Products = append(signal.Products, ps)
		if !ps.Participates || ps.OrderByDate == nil {
			continue
		}
		if limiting == nil || ps.OrderByDate.Before(*limiting.OrderByDate) {
			last := signal.Products[len(signal.Products)-1]
			limiting = &last
		}
	}

	if limiting == nil {
		return signal
	}
	signal.LimitingProduct = limiting
	signal.NextOrderDate = limiting.OrderByDate

	row := activeRow(in.Production[limiting.ProductID])
	overdue := !limiting.OrderByDate.After(today)

	// A run that lands after the target boat departs is a known miss
	// whether or not the order-by date has passed yet.
	if row != nil && targetBoat != nil {
		atPort := row.EstimatedDeliveryDate.AddDate(0, 0, in.Factory.TransportToPortDays)
		if atPort.After(targetBoat.DepartureDate) {
			signal.State = planning.SignalProductionDelayed
			return signal
		}
		if overdue {
			signal.State = planning.SignalInProduction
			signal.CanMakeTargetBoat = true
		}
		return signal
	}

	if !overdue {
		return signal
	}
	switch {
	case row != nil:
		signal.State = planning.SignalProductionDelayed
	case targetBoat != nil:
		signal.State = planning.SignalOrderToday
	default:
		signal.State = planning.SignalNoProduction
	}
	return signal
}

func (a *SignalAnalyzer) analyzeProduct(
	in SignalInput,
	p *catalog.Product,
	committedM2 decimal.Decimal,
	today time.Time,
	lead int,
) planning.ProductSignal {
	ps := planning.ProductSignal{ProductID: p.ID, SKU: p.SKU}

	snap := in.Snapshots[p.ID]
	velocity := decimal.Zero
	if m := in.Metrics[p.ID]; m != nil {
		velocity = m.DailyVelocityM2
	}

	var siesa, transitBulk decimal.Decimal
	if snap != nil {
		siesa = snap.FactoryAvailableM2
		transitBulk = snap.InTransitM2
	}

	var inProduction decimal.Decimal
	for _, row := range in.Production[p.ID] {
		if row.Status != inventory.ProductionCompleted {
			inProduction = inProduction.Add(shared.MaxZero(row.RequestedM2.Sub(row.CompletedM2)))
		}
	}

	// The tracked draft arrivals are carved out of the bulk transit
	// figure; only entries landing before depletion count.
	var tracked decimal.Decimal
	for _, e := range in.TransitEntries[p.ID] {
		tracked = tracked.Add(e.M2)
	}
	transitBulk = shared.MaxZero(transitBulk.Sub(tracked))

	base := shared.MaxZero(siesa.Add(inProduction).Add(transitBulk).Sub(committedM2))
	runsOut := depletionDate(base, velocity, today)

	var draftArrivals decimal.Decimal
	for _, e := range in.TransitEntries[p.ID] {
		if runsOut == nil || e.ArrivalDate.Before(*runsOut) {
			draftArrivals = draftArrivals.Add(e.M2)
		}
	}

	ps.EffectiveSiesaM2 = shared.MaxZero(base.Add(draftArrivals))

	if velocity.Sign() <= 0 {
		ps.InfiniteCoverage = true
		return ps
	}

	ps.CoverageDays = ps.EffectiveSiesaM2.Div(velocity).Round(1)
	coverageDays := int(ps.CoverageDays.IntPart())
	ro := today.AddDate(0, 0, coverageDays)
	ps.RunsOutDate = &ro
	ob := ro.AddDate(0, 0, -lead)
	ps.OrderByDate = &ob

	horizon := shared.Dec(coverageDays + lead + a.orderingCycleDays)
	ps.GapM2 = shared.MaxZero(velocity.Mul(horizon).Sub(ps.EffectiveSiesaM2)).Round(shared.QuantityScale)
	ps.Participates = ps.GapM2.GreaterThan(a.minProductionGapM2)
	return ps
}

// committedBySKU sums ordered/confirmed draft quantities per product
func (a *SignalAnalyzer) committedBySKU(in SignalInput) map[int]decimal.Decimal {
	byProduct := make(map[int]decimal.Decimal)
	divisors := make(map[int]decimal.Decimal, len(in.Products))
	for _, p := range in.Products {
		divisors[p.ID] = p.PalletDivisor(a.m2PerPallet)
	}
	for _, d := range in.CommittedDrafts {
		if !d.Status().IsCommitted() {
			continue
		}
		for _, item := range d.Items() {
			div, ok := divisors[item.ProductID]
			if !ok {
				continue
			}
			byProduct[item.ProductID] = byProduct[item.ProductID].Add(shared.Dec(item.SelectedPallets).Mul(div))
		}
	}
	return byProduct
}

func depletionDate(stock, velocity decimal.Decimal, today time.Time) *time.Time {
	if velocity.Sign() <= 0 {
		return nil
	}
	days := int(stock.Div(velocity).IntPart())
	d := today.AddDate(0, 0, days)
	return &d
}

func firstBoatAfter(boats []*schedule.Boat, after time.Time) *schedule.Boat {
	for _, b := range boats {
		if b.DepartureDate.After(after) {
			return b
		}
	}
	return nil
}

func activeRow(rows []*inventory.ProductionRow) *inventory.ProductionRow {
	for _, r := range rows {
		if r.Status != inventory.ProductionCompleted {
			return r
		}
	}
	return nil
}
