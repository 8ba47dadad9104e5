package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/order"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormWarehouseOrderRepository implements the warehouse-order ledger
// persistence using GORM.
type GormWarehouseOrderRepository struct {
	db *gorm.DB
}

// NewGormWarehouseOrderRepository creates a new GORM warehouse-order repository
func NewGormWarehouseOrderRepository(db *gorm.DB) *GormWarehouseOrderRepository {
	return &GormWarehouseOrderRepository{db: db}
}

// FindByID retrieves an order with its items
func (r *GormWarehouseOrderRepository) FindByID(ctx context.Context, id string) (*order.WarehouseOrder, error) {
	var model WarehouseOrderModel
	result := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("warehouse order", id)
		}
		return nil, wrapErr("warehouse_orders/select", result.Error)
	}
	return modelToOrder(&model), nil
}

// FindByStatus retrieves orders in any of the given states
func (r *GormWarehouseOrderRepository) FindByStatus(ctx context.Context, statuses []order.Status) ([]*order.WarehouseOrder, error) {
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}

	var models []WarehouseOrderModel
	result := r.db.WithContext(ctx).Preload("Items").
		Where("status IN ?", strs).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("warehouse_orders/select", result.Error)
	}

	orders := make([]*order.WarehouseOrder, len(models))
	for i := range models {
		orders[i] = modelToOrder(&models[i])
	}
	return orders, nil
}

// Create cancels any existing pending order for the same boat, then
// inserts the new order and its items. One transaction: the re-export
// law (exactly one pending order per boat) holds at every commit point.
func (r *GormWarehouseOrderRepository) Create(ctx context.Context, o *order.WarehouseOrder, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&WarehouseOrderModel{}).
			Where("boat_id = ? AND status = ?", o.BoatID(), string(order.StatusPending)).
			Updates(map[string]interface{}{"status": string(order.StatusCancelled), "cancelled_at": now}).Error
		if err != nil {
			return wrapErr("warehouse_orders/update", err)
		}

		model := orderToModel(o)
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return wrapErr("warehouse_orders/insert", err)
		}

		items := o.Items()
		if len(items) == 0 {
			return nil
		}
		itemModels := make([]WarehouseOrderItemModel, len(items))
		for i, it := range items {
			itemModels[i] = WarehouseOrderItemModel{
				OrderID:   o.ID(),
				ProductID: it.ProductID,
				SKU:       it.SKU,
				Pallets:   it.Pallets,
				M2:        it.M2,
				BLNumber:  it.BLNumber,
				Score:     it.Score,
			}
		}
		if err := tx.Create(&itemModels).Error; err != nil {
			return wrapErr("warehouse_order_items/insert", err)
		}
		return nil
	})
}

// UpdateStatus persists a status transition already validated by the
// domain state machine.
func (r *GormWarehouseOrderRepository) UpdateStatus(ctx context.Context, o *order.WarehouseOrder) error {
	model := orderToModel(o)
	err := r.db.WithContext(ctx).Model(&WarehouseOrderModel{}).
		Where("id = ?", o.ID()).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"shipped_at":   model.ShippedAt,
			"received_at":  model.ReceivedAt,
			"cancelled_at": model.CancelledAt,
		}).Error
	if err != nil {
		return wrapErr("warehouse_orders/update", err)
	}
	return nil
}

func orderToModel(o *order.WarehouseOrder) *WarehouseOrderModel {
	return &WarehouseOrderModel{
		ID:            o.ID(),
		BoatID:        o.BoatID(),
		BoatName:      o.BoatName(),
		Status:        string(o.Status()),
		TotalPallets:  o.TotalPallets(),
		TotalM2:       o.TotalM2(),
		Containers:    o.Containers(),
		TotalWeightKG: o.TotalWeightKG(),
		CreatedAt:     o.CreatedAt(),
		ShippedAt:     o.ShippedAt(),
		ReceivedAt:    o.ReceivedAt(),
		CancelledAt:   o.CancelledAt(),
	}
}

func modelToOrder(m *WarehouseOrderModel) *order.WarehouseOrder {
	items := make([]order.Item, len(m.Items))
	for i, it := range m.Items {
		items[i] = order.Item{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Pallets:   it.Pallets,
			M2:        it.M2,
			BLNumber:  it.BLNumber,
			Score:     it.Score,
		}
	}
	return order.Reconstitute(
		m.ID, m.BoatID, m.BoatName, order.Status(m.Status),
		m.TotalPallets, m.TotalM2, m.Containers, m.TotalWeightKG,
		items, m.CreatedAt, m.ShippedAt, m.ReceivedAt, m.CancelledAt,
	)
}
