package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks a warehouse order through its life
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// Item is one product line of an exported warehouse order
type Item struct {
	ProductID int
	SKU       string
	Pallets   int
	M2        decimal.Decimal
	BLNumber  *int
	Score     *int // composite score at export time, when available
}

// WarehouseOrder is the persisted record of an exported ship-now plan.
// Re-exporting for the same boat cancels the prior pending order.
//
// Lifecycle: pending -> shipped -> received, or pending -> cancelled.
type WarehouseOrder struct {
	id            string
	boatID        string
	boatName      string
	status        Status
	totalPallets  int
	totalM2       decimal.Decimal
	containers    int
	totalWeightKG decimal.Decimal
	items         []Item
	createdAt     time.Time
	shippedAt     *time.Time
	receivedAt    *time.Time
	cancelledAt   *time.Time
}

// NewWarehouseOrder creates a pending order with its items and aggregates
func NewWarehouseOrder(id, boatID, boatName string, items []Item, containers int, totalWeightKG decimal.Decimal, now time.Time) *WarehouseOrder {
	o := &WarehouseOrder{
		id:            id,
		boatID:        boatID,
		boatName:      boatName,
		status:        StatusPending,
		containers:    containers,
		totalWeightKG: totalWeightKG,
		items:         items,
		createdAt:     now,
	}
	for _, it := range items {
		o.totalPallets += it.Pallets
		o.totalM2 = o.totalM2.Add(it.M2)
	}
	return o
}

// Reconstitute rebuilds an order from persistence
func Reconstitute(id, boatID, boatName string, status Status, totalPallets int, totalM2 decimal.Decimal,
	containers int, totalWeightKG decimal.Decimal, items []Item,
	createdAt time.Time, shippedAt, receivedAt, cancelledAt *time.Time) *WarehouseOrder {
	return &WarehouseOrder{
		id:            id,
		boatID:        boatID,
		boatName:      boatName,
		status:        status,
		totalPallets:  totalPallets,
		totalM2:       totalM2,
		containers:    containers,
		totalWeightKG: totalWeightKG,
		items:         items,
		createdAt:     createdAt,
		shippedAt:     shippedAt,
		receivedAt:    receivedAt,
		cancelledAt:   cancelledAt,
	}
}

// Getters

func (o *WarehouseOrder) ID() string                     { return o.id }
func (o *WarehouseOrder) BoatID() string                 { return o.boatID }
func (o *WarehouseOrder) BoatName() string               { return o.boatName }
func (o *WarehouseOrder) Status() Status                 { return o.status }
func (o *WarehouseOrder) TotalPallets() int              { return o.totalPallets }
func (o *WarehouseOrder) TotalM2() decimal.Decimal       { return o.totalM2 }
func (o *WarehouseOrder) Containers() int                { return o.containers }
func (o *WarehouseOrder) TotalWeightKG() decimal.Decimal { return o.totalWeightKG }
func (o *WarehouseOrder) CreatedAt() time.Time           { return o.createdAt }
func (o *WarehouseOrder) ShippedAt() *time.Time          { return o.shippedAt }
func (o *WarehouseOrder) ReceivedAt() *time.Time         { return o.receivedAt }
func (o *WarehouseOrder) CancelledAt() *time.Time        { return o.cancelledAt }

// Items returns a copy of the order lines
func (o *WarehouseOrder) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// validNext enumerates the status DAG
var validNext = map[Status][]Status{
	StatusPending:   {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusReceived},
	StatusReceived:  {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal status edge
func CanTransition(from, to Status) bool {
	for _, next := range validNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the order along the status DAG, stamping the
// matching timestamp.
func (o *WarehouseOrder) TransitionTo(to Status, now time.Time) error {
	if !CanTransition(o.status, to) {
		return &ErrIllegalTransition{OrderID: o.id, From: o.status, To: to}
	}
	o.status = to
	switch to {
	case StatusShipped:
		o.shippedAt = &now
	case StatusReceived:
		o.receivedAt = &now
	case StatusCancelled:
		o.cancelledAt = &now
	}
	return nil
}
