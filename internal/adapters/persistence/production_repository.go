package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormProductionRepository implements production-schedule reads using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GORM production repository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// FindByProducts retrieves schedule rows for the given products,
// ordered by estimated delivery so the cascade consumes earliest first.
func (r *GormProductionRepository) FindByProducts(ctx context.Context, productIDs []int) ([]*inventory.ProductionRow, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var models []ProductionScheduleModel
	result := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("estimated_delivery_date ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("production_schedule/select", result.Error)
	}
	return modelsToRows(models)
}

func modelsToRows(models []ProductionScheduleModel) ([]*inventory.ProductionRow, error) {
	rows := make([]*inventory.ProductionRow, len(models))
	for i, m := range models {
		status, err := inventory.ParseProductionStatus(m.Status)
		if err != nil {
			return nil, shared.NewInternalError("production row has invalid status", err)
		}
		rows[i] = &inventory.ProductionRow{
			ID:                    m.ID,
			ProductID:             m.ProductID,
			Status:                status,
			RequestedM2:           m.RequestedM2,
			CompletedM2:           m.CompletedM2,
			RequestedAt:           shared.Midnight(m.RequestedAt),
			EstimatedDeliveryDate: shared.Midnight(m.EstimatedDeliveryDate),
		}
	}
	return rows, nil
}
