package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// ProductionStatus tracks a factory production run through its life
type ProductionStatus string

const (
	ProductionScheduled  ProductionStatus = "scheduled"
	ProductionInProgress ProductionStatus = "in_progress"
	ProductionCompleted  ProductionStatus = "completed"
)

// ParseProductionStatus converts the stored column value into the sum type
func ParseProductionStatus(s string) (ProductionStatus, error) {
	switch ProductionStatus(s) {
	case ProductionScheduled, ProductionInProgress, ProductionCompleted:
		return ProductionStatus(s), nil
	}
	return "", fmt.Errorf("unknown production status %q", s)
}

// ProductionRow is one row of the factory production schedule.
// CompletedM2 is monotonic non-decreasing and never exceeds RequestedM2.
type ProductionRow struct {
	ID                    int
	ProductID             int
	Status                ProductionStatus
	RequestedM2           decimal.Decimal
	CompletedM2           decimal.Decimal
	RequestedAt           time.Time
	EstimatedDeliveryDate time.Time
}

// DurationDays is the request-to-delivery span; feeds the average
// production-time estimate for fresh factory requests.
func (r *ProductionRow) DurationDays() int {
	if r.RequestedAt.IsZero() {
		return 0
	}
	return shared.DaysBetween(r.RequestedAt, r.EstimatedDeliveryDate)
}

// CanAddMore reports whether the order-builder may piggyback extra
// quantity onto this run. Only rows still in scheduled state accept adds.
func (r *ProductionRow) CanAddMore() bool {
	return r.Status == ProductionScheduled
}

// Contribution is the supply this row still feeds into a boat: the
// finished quantity for completed runs, the unfinished remainder for
// scheduled or in-progress runs.
func (r *ProductionRow) Contribution() decimal.Decimal {
	if r.Status == ProductionCompleted {
		return r.CompletedM2
	}
	return shared.MaxZero(r.RequestedM2.Sub(r.CompletedM2))
}
