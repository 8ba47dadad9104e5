package planning

import "time"

// MilestoneKey names one step of the boat×factory deadline chain
type MilestoneKey string

const (
	MilestoneFactoryRequestCutoff MilestoneKey = "factory_request_cutoff"
	MilestonePiggybackCutoff      MilestoneKey = "piggyback_cutoff"
	MilestoneOrderDeadline        MilestoneKey = "order_deadline"
	MilestoneDeparture            MilestoneKey = "departure_date"
	MilestoneArrival              MilestoneKey = "arrival_date"
	MilestoneInWarehouse          MilestoneKey = "in_warehouse_date"
)

// Milestone is one dated step of the timeline
type Milestone struct {
	Key    MilestoneKey `json:"key"`
	Label  string       `json:"label"`
	Date   time.Time    `json:"date"`
	Passed bool         `json:"passed"`
}

// BoatDeadlines is the ordered milestone timeline for a boat×factory
// pair plus the derived current position.
type BoatDeadlines struct {
	Milestones []Milestone `json:"milestones"`

	FactoryOrderBy        time.Time  `json:"factory_order_by"`
	ShippingBookBy        time.Time  `json:"shipping_book_by"`
	SiesaOrderBy          *time.Time `json:"siesa_order_by,omitempty"` // m²-based factories only
	ProductionRequestDate time.Time  `json:"production_request_date"`

	CurrentMilestone     *Milestone `json:"current_milestone,omitempty"`
	DaysToNextMilestone  *int       `json:"days_to_next_milestone,omitempty"`
}
