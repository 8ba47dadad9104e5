package planning

import "github.com/shopspring/decimal"

// Urgency classifies how soon a product runs dry after a boat arrives
type Urgency string

const (
	UrgencyCritical Urgency = "critical" // < 7 days of stock at arrival
	UrgencyUrgent   Urgency = "urgent"   // < 14 days
	UrgencySoon     Urgency = "soon"     // < 30 days
	UrgencyOK       Urgency = "ok"
)

// Rank orders urgencies for sorting: critical sorts first
func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyUrgent:
		return 1
	case UrgencySoon:
		return 2
	default:
		return 3
	}
}

// ClassifyUrgency buckets days-of-stock-at-arrival into a tier.
// infinite marks zero-velocity products, which are always ok.
func ClassifyUrgency(daysOfStock decimal.Decimal, infinite bool) Urgency {
	if infinite {
		return UrgencyOK
	}
	switch {
	case daysOfStock.LessThan(decimal.NewFromInt(7)):
		return UrgencyCritical
	case daysOfStock.LessThan(decimal.NewFromInt(14)):
		return UrgencyUrgent
	case daysOfStock.LessThan(decimal.NewFromInt(30)):
		return UrgencySoon
	default:
		return UrgencyOK
	}
}
