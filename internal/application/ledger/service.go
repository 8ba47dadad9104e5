// Package ledger is the audit layer for exported ship-now plans: every
// export becomes a warehouse order, re-exports supersede the prior
// pending order for the same boat, and the pending book feeds the
// pipeline overview.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/domain/order"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// OrderStore is the slice of the warehouse-order repository the
// service needs.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (*order.WarehouseOrder, error)
	FindByStatus(ctx context.Context, statuses []order.Status) ([]*order.WarehouseOrder, error)
	Create(ctx context.Context, o *order.WarehouseOrder, now time.Time) error
	UpdateStatus(ctx context.Context, o *order.WarehouseOrder) error
}

// BoatFinder resolves boats for estimated warehouse dates
type BoatFinder interface {
	FindByID(ctx context.Context, id string) (*schedule.Boat, error)
}

// PendingSKU aggregates every pending order line for one SKU
type PendingSKU struct {
	SKU                    string          `json:"sku"`
	TotalM2                decimal.Decimal `json:"total_m2"`
	TotalPallets           int             `json:"total_pallets"`
	BoatName               string          `json:"boat_name"`
	EstimatedWarehouseDate *time.Time      `json:"estimated_warehouse_date,omitempty"`
	OrderIDs               []string        `json:"order_ids"`
}

// Service owns the warehouse-order book
type Service struct {
	orders              OrderStore
	boats               BoatFinder
	clock               shared.Clock
	warehouseBufferDays int
}

// NewService creates the ledger service
func NewService(orders OrderStore, boats BoatFinder, clock shared.Clock, warehouseBufferDays int) *Service {
	return &Service{
		orders:              orders,
		boats:               boats,
		clock:               clock,
		warehouseBufferDays: warehouseBufferDays,
	}
}

// Create records a new pending order for a boat. Any prior pending
// order for the same boat is cancelled in the same transaction; at
// most one pending order per boat survives.
func (s *Service) Create(ctx context.Context, boatID, boatName string, items []order.Item, containers int, totalWeightKG decimal.Decimal) (*order.WarehouseOrder, error) {
	if boatID == "" {
		return nil, shared.NewValidationError("boat_id", "must not be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("items", "order must have at least one line")
	}
	for _, item := range items {
		if item.Pallets <= 0 {
			return nil, shared.NewValidationError("pallets", "must be positive")
		}
	}

	o := order.NewWarehouseOrder(uuid.NewString(), boatID, boatName, items, containers, totalWeightKG, s.clock.Now())
	if err := s.orders.Create(ctx, o, s.clock.Now()); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus moves an order along pending -> shipped -> received,
// or pending -> cancelled. Any other edge is a conflict.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to order.Status) (*order.WarehouseOrder, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.TransitionTo(to, s.clock.Now()); err != nil {
		return nil, shared.NewConflictError(err.Error())
	}
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetPendingBySKU rolls the pending book up per SKU. When multiple
// boats carry the same SKU the earliest warehouse date and that boat's
// name win.
func (s *Service) GetPendingBySKU(ctx context.Context) (map[string]*PendingSKU, error) {
	pending, err := s.orders.FindByStatus(ctx, []order.Status{order.StatusPending})
	if err != nil {
		return nil, err
	}

	out := make(map[string]*PendingSKU)
	for _, o := range pending {
		var warehouseDate *time.Time
		boat, err := s.boats.FindByID(ctx, o.BoatID())
		if err == nil {
			d := boat.ArrivalDate.AddDate(0, 0, s.warehouseBufferDays)
			warehouseDate = &d
		} else if !shared.IsNotFound(err) {
			return nil, err
		}

		for _, item := range o.Items() {
			agg := out[item.SKU]
			if agg == nil {
				agg = &PendingSKU{SKU: item.SKU}
				out[item.SKU] = agg
			}
			agg.TotalM2 = agg.TotalM2.Add(item.M2)
			agg.TotalPallets += item.Pallets
			agg.OrderIDs = append(agg.OrderIDs, o.ID())
			if warehouseDate != nil &&
				(agg.EstimatedWarehouseDate == nil || warehouseDate.Before(*agg.EstimatedWarehouseDate)) {
				agg.EstimatedWarehouseDate = warehouseDate
				agg.BoatName = o.BoatName()
			}
			if agg.BoatName == "" {
				agg.BoatName = o.BoatName()
			}
		}
	}
	return out, nil
}
