package orderbuilder

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// BuilderConfig carries the container arithmetic and timing constants
type BuilderConfig struct {
	M2PerPallet          decimal.Decimal
	PalletsPerContainer  int
	MaxContainersPerBL   int
	OrderingCycleDays    int
	ProductionBufferDays int
	KgPerM2              decimal.Decimal
}

// MinContainerM2 is one full container's worth of product
func (c BuilderConfig) MinContainerM2() decimal.Decimal {
	return c.M2PerPallet.Mul(shared.Dec(c.PalletsPerContainer))
}

// ShipNowItem is one line of the warehouse-order section: finished
// goods at origin that can ship on the target boat.
type ShipNowItem struct {
	ProductID        int                   `json:"product_id"`
	SKU              string                `json:"sku"`
	Pallets          int                   `json:"pallets"`
	M2               decimal.Decimal       `json:"m2"`
	AvailableSiesaM2 decimal.Decimal       `json:"available_siesa_m2"`
	Tier             planning.PriorityTier `json:"tier"`
	Score            ProductScore          `json:"score"`
}

// ProductionAddItem is one line of the add-to-production section:
// extra quantity piggybacked onto an already-scheduled run.
type ProductionAddItem struct {
	ProductID    int             `json:"product_id"`
	SKU          string          `json:"sku"`
	RowID        int             `json:"production_row_id"`
	RequestedM2  decimal.Decimal `json:"requested_m2"`
	SuggestedM2  decimal.Decimal `json:"suggested_m2"`
	AdditionalM2 decimal.Decimal `json:"additional_m2"`
}

// FactoryRequestItem is one line of the fresh-production section
type FactoryRequestItem struct {
	ProductID       int             `json:"product_id"`
	SKU             string          `json:"sku"`
	ProjectedM2     decimal.Decimal `json:"projected_m2"`
	NeedM2          decimal.Decimal `json:"need_m2"`
	RequestPallets  int             `json:"request_pallets"`
	RequestM2       decimal.Decimal `json:"request_m2"`
	Containers      int             `json:"containers"`
	MinimumApplied  bool            `json:"minimum_applied"`
	IsLowVolume     bool            `json:"is_low_volume"`
	ShouldRequest   bool            `json:"should_request"`
	DaysToConsume   decimal.Decimal `json:"days_to_consume"`
	ProductionReady time.Time       `json:"production_ready"`
	TargetBoatID    string          `json:"target_boat_id,omitempty"`
}

// BuildResult is the three-section order plan for one boat
type BuildResult struct {
	BoatID          string               `json:"boat_id"`
	ShipNow         []ShipNowItem        `json:"ship_now"`
	AddToProduction []ProductionAddItem  `json:"add_to_production"`
	FactoryRequest  []FactoryRequestItem `json:"factory_request"`
	Allocation      *AllocationReport    `json:"bl_allocation,omitempty"`
	Liquidation     []LiquidationItem    `json:"liquidation,omitempty"`
}

// BuildInput is the resolved world the builder reads: the simulator's
// projection for the target boat plus the raw stores behind it.
type BuildInput struct {
	Factory    *catalog.Factory
	Products   map[int]*catalog.Product
	Projection *planning.BoatProjection
	Boats      []*schedule.Boat
	Snapshots  map[int]*inventory.Snapshot
	Production map[int][]*inventory.ProductionRow
	Metrics    map[int]*planning.TrendMetrics
	Stockouts  map[int]planning.ProductStockout

	// PrimaryCustomers maps SKU to its highest-revenue habitual buyer;
	// drives customer-affinity BL placement.
	PrimaryCustomers map[string]string

	NumBLs   int
	Excluded map[string]bool
}

// Builder turns a boat projection into the three-section order plan
type Builder struct {
	clock shared.Clock
	cfg   BuilderConfig
}

// NewBuilder creates a builder on the given clock
func NewBuilder(clock shared.Clock, cfg BuilderConfig) *Builder {
	return &Builder{clock: clock, cfg: cfg}
}

// Build produces the plan. Ship-now drains SIESA by priority until BL
// capacity runs out; add-to-production piggybacks on scheduled runs;
// factory-request covers what remains, subject to the whole-container
// minimum.
func (b *Builder) Build(in BuildInput) *BuildResult {
	result := &BuildResult{BoatID: in.Projection.Boat.ID}

	covered := make(map[int]bool)
	result.ShipNow = b.buildShipNow(in, covered)
	result.AddToProduction = b.buildProductionAdds(in, covered)
	result.FactoryRequest = b.buildFactoryRequests(in, covered)

	if in.NumBLs > 0 && len(result.ShipNow) > 0 {
		result.Allocation = b.allocateBLs(result.ShipNow, in)
	}
	return result
}

// buildShipNow fills the warehouse-order section top-down by priority
// tier then score until BL capacity or SIESA runs out.
func (b *Builder) buildShipNow(in BuildInput, covered map[int]bool) []ShipNowItem {
	type candidate struct {
		pp    planning.ProductProjection
		siesa decimal.Decimal
		tier  planning.PriorityTier
		score ProductScore
	}

	var candidates []candidate
	for _, pp := range in.Projection.Products {
		if in.Excluded[pp.SKU] {
			continue
		}
		snap := in.Snapshots[pp.ProductID]
		if snap == nil || snap.FactoryAvailableM2.Sign() <= 0 {
			continue
		}
		tier := planning.TierYourCall
		if so, ok := in.Stockouts[pp.ProductID]; ok {
			tier = so.Tier
		}
		candidates = append(candidates, candidate{
			pp:    pp,
			siesa: snap.FactoryAvailableM2,
			tier:  tier,
			score: Score(pp, in.Metrics[pp.ProductID]),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if tierRank(candidates[i].tier) != tierRank(candidates[j].tier) {
			return tierRank(candidates[i].tier) < tierRank(candidates[j].tier)
		}
		return candidates[i].score.Total() > candidates[j].score.Total()
	})

	capacity := in.NumBLs * b.cfg.MaxContainersPerBL * b.cfg.PalletsPerContainer
	if capacity <= 0 {
		capacity = b.cfg.MaxContainersPerBL * b.cfg.PalletsPerContainer
	}

	var items []ShipNowItem
	for _, c := range candidates {
		if capacity <= 0 {
			break
		}
		divisor := divisorFor(in, c.pp.ProductID, b.cfg.M2PerPallet)
		availablePallets := int(c.siesa.Div(divisor).IntPart())
		take := c.pp.SuggestedPallets
		if take > availablePallets {
			take = availablePallets
		}
		if take > capacity {
			take = capacity
		}
		if take <= 0 {
			continue
		}
		capacity -= take
		covered[c.pp.ProductID] = true
		items = append(items, ShipNowItem{
			ProductID:        c.pp.ProductID,
			SKU:              c.pp.SKU,
			Pallets:          take,
			M2:               shared.Dec(take).Mul(divisor),
			AvailableSiesaM2: c.siesa,
			Tier:             c.tier,
			Score:            c.score,
		})
	}
	return items
}

// buildProductionAdds piggybacks the simulator's extra demand onto
// still-open scheduled runs. No minimum applies.
func (b *Builder) buildProductionAdds(in BuildInput, covered map[int]bool) []ProductionAddItem {
	var items []ProductionAddItem
	for _, pp := range in.Projection.Products {
		if in.Excluded[pp.SKU] {
			continue
		}
		row := latestOpenRow(in.Production[pp.ProductID])
		if row == nil {
			continue
		}
		if !pp.SuggestedM2.GreaterThan(row.RequestedM2) {
			continue
		}
		covered[pp.ProductID] = true
		items = append(items, ProductionAddItem{
			ProductID:    pp.ProductID,
			SKU:          pp.SKU,
			RowID:        row.ID,
			RequestedM2:  row.RequestedM2,
			SuggestedM2:  pp.SuggestedM2,
			AdditionalM2: pp.SuggestedM2.Sub(row.RequestedM2),
		})
	}
	return items
}

// buildFactoryRequests covers the SKUs the other sections left facing
// a stockout, rounding every request up to whole containers.
func (b *Builder) buildFactoryRequests(in BuildInput, covered map[int]bool) []FactoryRequestItem {
	today := b.clock.Today()
	ready := nextMonday(today).AddDate(0, 0, b.avgProductionDays(in)+b.cfg.ProductionBufferDays)
	minContainer := b.cfg.MinContainerM2()

	var items []FactoryRequestItem
	for _, pp := range in.Projection.Products {
		if in.Excluded[pp.SKU] || covered[pp.ProductID] {
			continue
		}
		velocity := pp.DailyVelocityM2

		item := FactoryRequestItem{
			ProductID:       pp.ProductID,
			SKU:             pp.SKU,
			ProductionReady: ready,
		}

		if velocity.Sign() <= 0 {
			item.IsLowVolume = true
			items = append(items, item)
			continue
		}
		item.DaysToConsume = minContainer.Div(velocity).Round(1)

		target := firstBoatAfter(in.Boats, ready)
		if target == nil {
			continue
		}
		item.TargetBoatID = target.ID

		snap := in.Snapshots[pp.ProductID]
		var warehouse, pipeline decimal.Decimal
		if snap != nil {
			warehouse = snap.WarehouseM2
			pipeline = snap.InTransitM2
		}
		for _, row := range in.Production[pp.ProductID] {
			if row.Status == inventory.ProductionCompleted {
				pipeline = pipeline.Add(row.CompletedM2)
			}
		}

		daysUntilArrival := shared.DaysBetween(today, target.ArrivalDate)
		item.ProjectedM2 = warehouse.Add(pipeline).Sub(velocity.Mul(shared.Dec(daysUntilArrival)))
		if item.ProjectedM2.Sign() >= 0 {
			continue
		}

		daysToFollowing := b.cfg.OrderingCycleDays
		if following := firstBoatAfter(in.Boats, target.DepartureDate); following != nil {
			daysToFollowing = shared.DaysBetween(target.ArrivalDate, following.ArrivalDate)
		}
		item.NeedM2 = item.ProjectedM2.Abs().Add(velocity.Mul(shared.Dec(daysToFollowing)))

		switch {
		case item.DaysToConsume.GreaterThan(decimal.NewFromInt(365)):
			item.IsLowVolume = true
		case item.NeedM2.GreaterThanOrEqual(minContainer):
			item.Containers = shared.CeilDiv(item.NeedM2, minContainer)
			item.ShouldRequest = true
		default:
			item.Containers = 1
			item.MinimumApplied = true
			item.ShouldRequest = true
		}
		if item.ShouldRequest {
			item.RequestPallets = item.Containers * b.cfg.PalletsPerContainer
			item.RequestM2 = shared.Dec(item.RequestPallets).Mul(b.cfg.M2PerPallet)
		}
		items = append(items, item)
	}
	return items
}

// avgProductionDays is the mean request-to-delivery span over completed
// rows, falling back to one week when no history exists.
func (b *Builder) avgProductionDays(in BuildInput) int {
	total, count := 0, 0
	for _, rows := range in.Production {
		for _, row := range rows {
			if row.Status != inventory.ProductionCompleted {
				continue
			}
			if span := row.DurationDays(); span > 0 {
				total += span
				count++
			}
		}
	}
	if count == 0 {
		return 7
	}
	return total / count
}

func latestOpenRow(rows []*inventory.ProductionRow) *inventory.ProductionRow {
	var latest *inventory.ProductionRow
	for _, row := range rows {
		if !row.CanAddMore() {
			continue
		}
		if latest == nil || row.EstimatedDeliveryDate.After(latest.EstimatedDeliveryDate) {
			latest = row
		}
	}
	return latest
}

func divisorFor(in BuildInput, productID int, m2PerPallet decimal.Decimal) decimal.Decimal {
	if p, ok := in.Products[productID]; ok {
		return p.PalletDivisor(m2PerPallet)
	}
	return m2PerPallet
}

func firstBoatAfter(boats []*schedule.Boat, after time.Time) *schedule.Boat {
	for _, b := range boats {
		if b.DepartureDate.After(after) {
			return b
		}
	}
	return nil
}

func nextMonday(today time.Time) time.Time {
	d := shared.Midnight(today).AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
