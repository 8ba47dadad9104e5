package planning

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
)

// ProductProjection is the simulator's per-SKU output for one boat
type ProductProjection struct {
	ProductID int     `json:"product_id"`
	SKU       string  `json:"sku"`
	Urgency   Urgency `json:"urgency"`

	// Supply picture at this boat
	StockBeforeM2      decimal.Decimal    `json:"stock_before_m2"`
	SiesaAppliedM2     decimal.Decimal    `json:"siesa_applied_m2"`
	ProductionM2       decimal.Decimal    `json:"production_m2"`
	TransitAppliedM2   decimal.Decimal    `json:"transit_applied_m2"`
	EffectiveStockM2   decimal.Decimal    `json:"effective_stock_m2"`
	ProjectedStockM2   decimal.Decimal    `json:"projected_stock_m2"`
	DailyVelocityM2    decimal.Decimal    `json:"daily_velocity_m2"`
	DaysOfStock        decimal.Decimal    `json:"days_of_stock_at_arrival"`
	InfiniteCoverage   bool               `json:"infinite_coverage"`
	CoverageGapM2      decimal.Decimal    `json:"coverage_gap_m2"`
	SuggestedPallets   int                `json:"suggested_pallets"`
	SuggestedM2        decimal.Decimal    `json:"suggested_m2"`
	IsCommitted        bool               `json:"is_committed"`
	FromDraft          bool               `json:"from_draft"`
	CustomerDemand     int                `json:"customer_demand_score"`
	VelocityTrend      VelocitySignal     `json:"velocity_trend_signal"`
	TrendDirection     TrendDirection     `json:"trend_direction"`
	VelocityConfidence VelocityConfidence `json:"velocity_confidence"`
}

// UrgencyCounts is the per-boat histogram across products
type UrgencyCounts struct {
	Critical int `json:"critical"`
	Urgent   int `json:"urgent"`
	Soon     int `json:"soon"`
	OK       int `json:"ok"`
}

// Add increments the bucket for one product's urgency
func (c *UrgencyCounts) Add(u Urgency) {
	switch u {
	case UrgencyCritical:
		c.Critical++
	case UrgencyUrgent:
		c.Urgent++
	case UrgencySoon:
		c.Soon++
	default:
		c.OK++
	}
}

// StabilityClass describes what this boat does to one SKU's coverage
type StabilityClass string

const (
	// Stabilized - below the 30-day threshold before this boat, at or
	// above it after
	Stabilized StabilityClass = "stabilized"

	// Recovering - still below after this boat but supply arrives on a
	// later one
	Recovering StabilityClass = "recovering"

	// Blocked - still below with no later supply in the horizon
	Blocked StabilityClass = "blocked"
)

// StabilityImpact summarizes how a boat moves the fleet of SKUs toward
// 30-day coverage.
type StabilityImpact struct {
	Stabilized []string `json:"stabilized_skus"`
	Recovering []string `json:"recovering_skus"`
	Blocked    []string `json:"blocked_skus"`
	// ProgressBeforePct / ProgressAfterPct are the share of SKUs at or
	// above 30-day coverage before and after this boat's fills.
	ProgressBeforePct decimal.Decimal `json:"progress_before_pct"`
	ProgressAfterPct  decimal.Decimal `json:"progress_after_pct"`
}

// EarlierDraftContext tells the planner which preceding drafts this
// boat's baseline depends on.
type EarlierDraftContext struct {
	Count        int    `json:"count"`
	TotalPallets int    `json:"total_pallets"`
	Summary      string `json:"summary"`
}

// BoatProjection is the simulator's full output for one boat
type BoatProjection struct {
	Boat       schedule.Boat       `json:"boat"`
	DaysOut    int                 `json:"days_out"`
	Confidence ConfidenceBand      `json:"confidence"`
	Deadlines  BoatDeadlines       `json:"deadlines"`
	Products   []ProductProjection `json:"products"`
	Urgencies  UrgencyCounts       `json:"urgency_counts"`

	ProjectedPalletsTotal int `json:"projected_pallets_total"`
	ProjectedPalletsMin   int `json:"projected_pallets_min"`
	ProjectedPalletsMax   int `json:"projected_pallets_max"`

	// Draft metadata for (boat, factory)
	DraftID       *int         `json:"draft_id,omitempty"`
	DraftStatus   draft.Status `json:"draft_status,omitempty"`
	IsActive      bool         `json:"is_active"`
	IsDraftLocked bool         `json:"is_draft_locked"`
	NeedsReview   bool         `json:"needs_review"`
	ReviewReason  string       `json:"review_reason,omitempty"`

	HasEarlierDrafts bool                 `json:"has_earlier_drafts"`
	EarlierDrafts    *EarlierDraftContext `json:"earlier_draft_context,omitempty"`

	Stability StabilityImpact `json:"stability_impact"`
}

// PlanningHorizon is the multi-month forward view for one factory
type PlanningHorizon struct {
	FactoryID     int                `json:"factory_id"`
	FactoryName   string             `json:"factory_name"`
	HorizonMonths int                `json:"horizon_months"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Boats         []BoatProjection   `json:"boats"`
	OrderSignal   FactoryOrderSignal `json:"factory_order_signal"`
}
