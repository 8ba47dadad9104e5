package planning

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalState classifies the next-factory-order picture for a factory
type SignalState string

const (
	// SignalOnTrack - the earliest order-by date is still in the future
	SignalOnTrack SignalState = "on_track"

	// SignalInProduction - overdue, but an active run still makes the
	// target boat
	SignalInProduction SignalState = "in_production"

	// SignalProductionDelayed - overdue and the active run lands after
	// the target boat departs
	SignalProductionDelayed SignalState = "production_delayed"

	// SignalOrderToday - overdue with no production run but a target
	// boat exists
	SignalOrderToday SignalState = "order_today"

	// SignalNoProduction - overdue with no run and no target boat
	SignalNoProduction SignalState = "no_production"
)

// ProductSignal is the per-product arithmetic behind the factory signal
type ProductSignal struct {
	ProductID        int             `json:"product_id"`
	SKU              string          `json:"sku"`
	EffectiveSiesaM2 decimal.Decimal `json:"effective_siesa_m2"`
	CoverageDays     decimal.Decimal `json:"coverage_days"`
	InfiniteCoverage bool            `json:"infinite_coverage"`
	RunsOutDate      *time.Time      `json:"runs_out_date,omitempty"`
	OrderByDate      *time.Time      `json:"order_by_date,omitempty"`
	GapM2            decimal.Decimal `json:"gap_m2"`
	Participates     bool            `json:"participates"`
}

// FactoryOrderSignal is when the next production run must be kicked off
// so origin finished goods do not deplete before replenishment can
// reach a boat.
type FactoryOrderSignal struct {
	State             SignalState     `json:"state"`
	NextOrderDate     *time.Time      `json:"next_order_date,omitempty"`
	LimitingProduct   *ProductSignal  `json:"limiting_product,omitempty"`
	TargetBoatID      string          `json:"target_boat_id,omitempty"`
	TargetDeparture   *time.Time      `json:"target_departure,omitempty"`
	CanMakeTargetBoat bool            `json:"can_make_target_boat"`
	Products          []ProductSignal `json:"products"`
}
