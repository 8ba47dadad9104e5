package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

func TestComputeDeadlineOrdering(t *testing.T) {
	engine := NewDeadlineEngine(3, 30)
	factory := testFactory()
	today := shared.Date(2026, time.March, 1)
	departure := shared.Date(2026, time.April, 20)
	arrival := shared.Date(2026, time.May, 10)

	deadlines := engine.Compute(factory, departure, arrival, true, today)

	require.NotEmpty(t, deadlines.Milestones)
	for i := 1; i < len(deadlines.Milestones); i++ {
		assert.False(t, deadlines.Milestones[i].Date.Before(deadlines.Milestones[i-1].Date),
			"milestone %s before %s", deadlines.Milestones[i].Key, deadlines.Milestones[i-1].Key)
	}
}

func TestComputeDeadlineDates(t *testing.T) {
	engine := NewDeadlineEngine(3, 30)
	factory := testFactory() // lead 5, transport 2
	today := shared.Date(2026, time.March, 1)
	departure := shared.Date(2026, time.April, 20)
	arrival := shared.Date(2026, time.May, 10)

	deadlines := engine.Compute(factory, departure, arrival, false, today)

	// departure - (5 + 2 + 5)
	assert.Equal(t, shared.Date(2026, time.April, 8), deadlines.FactoryOrderBy)
	// departure - (2 + 3)
	assert.Equal(t, shared.Date(2026, time.April, 15), deadlines.ShippingBookBy)
	require.NotNil(t, deadlines.SiesaOrderBy)
	assert.Equal(t, shared.Date(2026, time.March, 21), *deadlines.SiesaOrderBy)

	byKey := make(map[planning.MilestoneKey]planning.Milestone)
	for _, m := range deadlines.Milestones {
		byKey[m.Key] = m
	}
	assert.Equal(t, shared.Date(2026, time.May, 13), byKey[planning.MilestoneInWarehouse].Date)
	_, hasPiggyback := byKey[planning.MilestonePiggybackCutoff]
	assert.False(t, hasPiggyback, "no piggyback without scheduled production")
}

func TestComputePiggybackCutoffOnlyWithScheduledProduction(t *testing.T) {
	engine := NewDeadlineEngine(3, 30)
	factory := testFactory() // cutoff Tuesday
	today := shared.Date(2026, time.March, 1) // Sunday

	deadlines := engine.Compute(factory, shared.Date(2026, time.April, 20), shared.Date(2026, time.May, 10), true, today)

	var piggyback *planning.Milestone
	for i := range deadlines.Milestones {
		if deadlines.Milestones[i].Key == planning.MilestonePiggybackCutoff {
			piggyback = &deadlines.Milestones[i]
		}
	}
	require.NotNil(t, piggyback)
	assert.Equal(t, shared.Date(2026, time.March, 3), piggyback.Date, "first Tuesday strictly after today")
}

func TestComputeSkipsSiesaForUnitFactories(t *testing.T) {
	engine := NewDeadlineEngine(3, 30)
	factory := testFactory()
	factory.UnitType = catalog.UnitTypeUnits

	deadlines := engine.Compute(factory, shared.Date(2026, time.April, 20), shared.Date(2026, time.May, 10), false, shared.Date(2026, time.March, 1))
	assert.Nil(t, deadlines.SiesaOrderBy)
}

func TestComputeCurrentMilestone(t *testing.T) {
	engine := NewDeadlineEngine(3, 30)
	factory := testFactory()
	today := shared.Date(2026, time.April, 10)

	deadlines := engine.Compute(factory, shared.Date(2026, time.April, 20), shared.Date(2026, time.May, 10), false, today)

	require.NotNil(t, deadlines.CurrentMilestone)
	// factory_request_cutoff (4/8) has passed; order_deadline (4/15) is next.
	assert.Equal(t, planning.MilestoneOrderDeadline, deadlines.CurrentMilestone.Key)
	require.NotNil(t, deadlines.DaysToNextMilestone)
	assert.Equal(t, 5, *deadlines.DaysToNextMilestone)

	for _, m := range deadlines.Milestones {
		if m.Date.Before(today) {
			assert.True(t, m.Passed)
		}
	}
}
