package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

func weeklyRoute() *catalog.ShippingRoute {
	return &catalog.ShippingRoute{
		ID:                 1,
		Name:               "Valencia Weekly",
		OriginPort:         "Valencia",
		DestinationPort:    "Cartagena",
		DepartureDayOfWeek: 0, // Monday
		TransitDays:        16,
		FrequencyWeeks:     1,
		Carrier:            "MSC",
		Active:             true,
	}
}

func TestMergeGeneratesPhantomsOnRouteWeekday(t *testing.T) {
	// 2026-03-01 is a Sunday; first Monday after is 2026-03-02.
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	merger := NewBoatMerger(clock)

	merged := merger.Merge(nil, []*catalog.ShippingRoute{weeklyRoute()}, 28)
	require.NotEmpty(t, merged)

	for _, b := range merged {
		assert.Equal(t, time.Monday, b.DepartureDate.Weekday())
		assert.Equal(t, schedule.BoatEstimated, b.Status)
		assert.Equal(t, b.DepartureDate.AddDate(0, 0, 16), b.ArrivalDate)
	}
	assert.Equal(t, shared.Date(2026, time.March, 2), merged[0].DepartureDate)
	assert.Len(t, merged, 4)
}

func TestMergeSuppressesPhantomNearRealBoat(t *testing.T) {
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	merger := NewBoatMerger(clock)

	real := &schedule.Boat{
		ID:            "real-1",
		VesselName:    "MSC LUCIA",
		OriginPort:    "Valencia",
		DepartureDate: shared.Date(2026, time.March, 3), // Tuesday, 1 day from the 3/2 phantom slot
		ArrivalDate:   shared.Date(2026, time.March, 19),
		Status:        schedule.BoatAvailable,
	}

	merged := merger.Merge([]*schedule.Boat{real}, []*catalog.ShippingRoute{weeklyRoute()}, 28)

	for _, b := range merged {
		if b.Status == schedule.BoatEstimated {
			assert.NotEqual(t, shared.Date(2026, time.March, 2), b.DepartureDate,
				"phantom within 2 days of a real boat must be suppressed")
		}
	}
	assert.Equal(t, "real-1", merged[0].ID)
}

func TestMergeIsIdempotent(t *testing.T) {
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	merger := NewBoatMerger(clock)
	routes := []*catalog.ShippingRoute{weeklyRoute()}

	first := merger.Merge(nil, routes, 60)
	second := merger.Merge(nil, routes, 60)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].DepartureDate, second[i].DepartureDate)
	}
}

func TestMergeSkipsInactiveRoutes(t *testing.T) {
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	merger := NewBoatMerger(clock)

	route := weeklyRoute()
	route.Active = false
	merged := merger.Merge(nil, []*catalog.ShippingRoute{route}, 60)
	assert.Empty(t, merged)
}

func TestMergeSortsByDeparture(t *testing.T) {
	clock := shared.NewFixedClock(shared.Date(2026, time.March, 1))
	merger := NewBoatMerger(clock)

	real := []*schedule.Boat{
		{ID: "late", DepartureDate: shared.Date(2026, time.April, 15), ArrivalDate: shared.Date(2026, time.May, 1), Status: schedule.BoatAvailable},
		{ID: "early", DepartureDate: shared.Date(2026, time.March, 10), ArrivalDate: shared.Date(2026, time.March, 26), Status: schedule.BoatBooked},
	}
	merged := merger.Merge(real, []*catalog.ShippingRoute{weeklyRoute()}, 60)

	for i := 1; i < len(merged); i++ {
		assert.False(t, merged[i].DepartureDate.Before(merged[i-1].DepartureDate))
	}
}
