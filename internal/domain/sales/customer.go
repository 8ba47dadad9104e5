package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerTier buckets customers by cumulative revenue share:
// A = first 20%, B = next 30%, C = the rest.
type CustomerTier string

const (
	TierA CustomerTier = "A"
	TierB CustomerTier = "B"
	TierC CustomerTier = "C"
)

// Weight is the demand-score weight carried by the tier
func (t CustomerTier) Weight() int {
	switch t {
	case TierA:
		return 100
	case TierB:
		return 50
	default:
		return 25
	}
}

// CustomerPattern summarizes a customer's purchasing rhythm for one or
// more products. DaysOverdue is positive once today has passed
// last_order + avg_gap_days.
type CustomerPattern struct {
	CustomerNormalized string
	Tier               CustomerTier
	TotalRevenueUSD    decimal.Decimal
	AvgGapDays         int
	LastOrderDate      time.Time
	TopProducts        []string // SKUs this customer habitually buys
	AvgOrderM2         decimal.Decimal
}

// DaysOverdue returns how many days past the expected reorder date the
// customer is, or 0 when not yet due.
func (p *CustomerPattern) DaysOverdue(today time.Time) int {
	expected := p.LastOrderDate.AddDate(0, 0, p.AvgGapDays)
	overdue := int(today.Sub(expected).Hours() / 24)
	if overdue < 0 {
		return 0
	}
	return overdue
}

// OverdueMultiplier scales the tier weight by how stale the customer
// is: recently-due customers count once, long-overdue ones up to 2.5x.
func (p *CustomerPattern) OverdueMultiplier(today time.Time) decimal.Decimal {
	switch d := p.DaysOverdue(today); {
	case d <= 14:
		return decimal.NewFromFloat(1.0)
	case d <= 30:
		return decimal.NewFromFloat(1.5)
	case d <= 60:
		return decimal.NewFromFloat(2.0)
	default:
		return decimal.NewFromFloat(2.5)
	}
}
