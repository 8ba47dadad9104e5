package planning

import (
	"sort"
	"time"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// DeadlineEngine computes the ordered milestone timeline for a
// boat×factory pair. Used by both the simulator and the planner UI.
type DeadlineEngine struct {
	warehouseBufferDays int
	orderDeadlineDays   int
}

// NewDeadlineEngine creates an engine with the configured buffers
func NewDeadlineEngine(warehouseBufferDays, orderDeadlineDays int) *DeadlineEngine {
	return &DeadlineEngine{
		warehouseBufferDays: warehouseBufferDays,
		orderDeadlineDays:   orderDeadlineDays,
	}
}

// Compute builds the six-milestone timeline. The piggyback cutoff only
// exists while the factory has a scheduled run to add onto and the
// cutoff still precedes departure. SIESA ordering only applies to
// m²-based factories; unit-based ones skip the finished-goods step.
func (e *DeadlineEngine) Compute(
	factory *catalog.Factory,
	departure, arrival time.Time,
	hasScheduledProduction bool,
	today time.Time,
) planning.BoatDeadlines {
	factoryRequestCutoff := departure.AddDate(0, 0, -(factory.ProductionLeadDays + factory.TransportToPortDays + 5))
	orderDeadline := departure.AddDate(0, 0, -(factory.TransportToPortDays + 3))
	inWarehouse := arrival.AddDate(0, 0, e.warehouseBufferDays)

	milestones := []planning.Milestone{
		{Key: planning.MilestoneFactoryRequestCutoff, Label: "Factory production request", Date: factoryRequestCutoff},
	}

	if hasScheduledProduction {
		next := nextCutoffDay(today, factory.CutoffDay)
		if next.Before(departure) {
			milestones = append(milestones, planning.Milestone{
				Key: planning.MilestonePiggybackCutoff, Label: "Add to scheduled production", Date: next,
			})
		}
	}

	milestones = append(milestones,
		planning.Milestone{Key: planning.MilestoneOrderDeadline, Label: "Order deadline", Date: orderDeadline},
		planning.Milestone{Key: planning.MilestoneDeparture, Label: "Boat departs", Date: departure},
		planning.Milestone{Key: planning.MilestoneArrival, Label: "Boat arrives", Date: arrival},
		planning.Milestone{Key: planning.MilestoneInWarehouse, Label: "Available in warehouse", Date: inWarehouse},
	)

	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Date.Before(milestones[j].Date)
	})

	deadlines := planning.BoatDeadlines{
		Milestones:            milestones,
		FactoryOrderBy:        factoryRequestCutoff,
		ShippingBookBy:        orderDeadline,
		ProductionRequestDate: factoryRequestCutoff,
	}

	if factory.HasSiesaStep() {
		siesaBy := departure.AddDate(0, 0, -e.orderDeadlineDays)
		deadlines.SiesaOrderBy = &siesaBy
	}

	for i := range deadlines.Milestones {
		deadlines.Milestones[i].Passed = deadlines.Milestones[i].Date.Before(today)
	}
	for i := range deadlines.Milestones {
		if !deadlines.Milestones[i].Date.Before(today) {
			current := deadlines.Milestones[i]
			deadlines.CurrentMilestone = &current
			days := shared.DaysBetween(today, current.Date)
			deadlines.DaysToNextMilestone = &days
			break
		}
	}

	return deadlines
}

// nextCutoffDay finds the next occurrence of the factory's cutoff
// weekday strictly after today.
func nextCutoffDay(today time.Time, cutoff time.Weekday) time.Time {
	d := shared.Midnight(today).AddDate(0, 0, 1)
	for d.Weekday() != cutoff {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
