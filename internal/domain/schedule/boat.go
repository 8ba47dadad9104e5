package schedule

import (
	"fmt"
	"time"
)

// BoatStatus distinguishes bookable sailings from synthesized ones
type BoatStatus string

const (
	// BoatAvailable - a real sailing open for booking
	BoatAvailable BoatStatus = "available"

	// BoatBooked - a real sailing already booked
	BoatBooked BoatStatus = "booked"

	// BoatEstimated - a phantom sailing synthesized from a shipping
	// route pattern to fill horizon gaps
	BoatEstimated BoatStatus = "estimated"
)

// ParseBoatStatus converts the stored column value into the sum type
func ParseBoatStatus(s string) (BoatStatus, error) {
	switch BoatStatus(s) {
	case BoatAvailable, BoatBooked, BoatEstimated:
		return BoatStatus(s), nil
	}
	return "", fmt.Errorf("unknown boat status %q", s)
}

// Boat is one scheduled (or synthesized) sailing. ArrivalDate is never
// before DepartureDate. Phantom boats share their ID deterministically
// across requests via a hash of route and departure date.
type Boat struct {
	ID              string
	VesselName      string
	OriginPort      string
	DestinationPort string
	DepartureDate   time.Time
	ArrivalDate     time.Time
	Status          BoatStatus
	ShippingLine    string
	TransitDays     int
}

// IsReal reports whether this sailing exists in the schedule rather
// than being synthesized by the merger.
func (b *Boat) IsReal() bool { return b.Status != BoatEstimated }

// OrderDeadline is the last day an order can still make this boat,
// a fixed number of days ahead of departure.
func (b *Boat) OrderDeadline(orderDeadlineDays int) time.Time {
	return b.DepartureDate.AddDate(0, 0, -orderDeadlineDays)
}
