package planning

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// phantomNamespace seeds the deterministic phantom-boat IDs. Stable
// IDs keep downstream draft lookups and caches consistent across
// requests for the same (route, departure).
var phantomNamespace = uuid.MustParse("f2b1c9c4-7a38-4f29-9a57-3d5d3a9e1b20")

// phantomSuppressionDays is the window around a phantom candidate in
// which a real boat suppresses it.
const phantomSuppressionDays = 2

// BoatMerger fills horizon gaps: real scheduled boats are sparse, so
// recurring route patterns synthesize "estimated" sailings wherever no
// real boat is near.
type BoatMerger struct {
	clock shared.Clock
}

// NewBoatMerger creates a merger on the given clock
func NewBoatMerger(clock shared.Clock) *BoatMerger {
	return &BoatMerger{clock: clock}
}

// Merge combines real boats with phantoms generated from the routes,
// returning the gap-filled sequence sorted by departure. Phantom IDs
// are deterministic; calling Merge twice with the same inputs yields
// identical boats in identical order.
func (m *BoatMerger) Merge(realBoats []*schedule.Boat, routes []*catalog.ShippingRoute, horizonDays int) []*schedule.Boat {
	today := m.clock.Today()
	horizonEnd := today.AddDate(0, 0, horizonDays)

	merged := make([]*schedule.Boat, 0, len(realBoats))
	merged = append(merged, realBoats...)

	for _, route := range routes {
		if !route.Active || route.FrequencyWeeks <= 0 {
			continue
		}
		start := nextWeekday(today.AddDate(0, 0, 1), route.DepartureDayOfWeek)
		for candidate := start; !candidate.After(horizonEnd); candidate = candidate.AddDate(0, 0, 7*route.FrequencyWeeks) {
			if hasRealBoatNear(realBoats, candidate) {
				continue
			}
			merged = append(merged, m.phantomBoat(route, candidate))
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].DepartureDate.Equal(merged[j].DepartureDate) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].DepartureDate.Before(merged[j].DepartureDate)
	})
	return merged
}

// nextWeekday finds the first date >= from falling on the route's
// departure weekday. Routes store 0 = Monday; time.Weekday has
// 0 = Sunday, hence the +1 shift.
func nextWeekday(from time.Time, routeDOW int) time.Time {
	target := time.Weekday((routeDOW + 1) % 7)
	d := shared.Midnight(from)
	for d.Weekday() != target {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func hasRealBoatNear(realBoats []*schedule.Boat, candidate time.Time) bool {
	for _, b := range realBoats {
		delta := shared.DaysBetween(b.DepartureDate, candidate)
		if delta >= -phantomSuppressionDays && delta <= phantomSuppressionDays {
			return true
		}
	}
	return false
}

func (m *BoatMerger) phantomBoat(route *catalog.ShippingRoute, departure time.Time) *schedule.Boat {
	seed := fmt.Sprintf("%d:%s", route.ID, departure.Format("2006-01-02"))
	return &schedule.Boat{
		ID:              uuid.NewSHA1(phantomNamespace, []byte(seed)).String(),
		VesselName:      fmt.Sprintf("%s (est.)", route.Name),
		OriginPort:      route.OriginPort,
		DestinationPort: route.DestinationPort,
		DepartureDate:   departure,
		ArrivalDate:     departure.AddDate(0, 0, route.TransitDays),
		Status:          schedule.BoatEstimated,
		ShippingLine:    route.Carrier,
		TransitDays:     route.TransitDays,
	}
}
