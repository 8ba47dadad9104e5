package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormFactoryRepository implements factory reads using GORM
type GormFactoryRepository struct {
	db *gorm.DB
}

// NewGormFactoryRepository creates a new GORM factory repository
func NewGormFactoryRepository(db *gorm.DB) *GormFactoryRepository {
	return &GormFactoryRepository{db: db}
}

// FindByID retrieves a factory by its ID
func (r *GormFactoryRepository) FindByID(ctx context.Context, id int) (*catalog.Factory, error) {
	var model FactoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("factory", id)
		}
		return nil, wrapErr("factories/select", result.Error)
	}
	return modelToFactory(&model)
}

// FindAll retrieves every factory ordered by sort order
func (r *GormFactoryRepository) FindAll(ctx context.Context) ([]*catalog.Factory, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

// FindActive retrieves active factories ordered by sort order
func (r *GormFactoryRepository) FindActive(ctx context.Context) ([]*catalog.Factory, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("active = ?", true))
}

// DefaultActive returns the first active factory by sort order
func (r *GormFactoryRepository) DefaultActive(ctx context.Context) (*catalog.Factory, error) {
	var model FactoryModel
	result := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, id ASC").
		First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("factory", "default")
		}
		return nil, wrapErr("factories/select", result.Error)
	}
	return modelToFactory(&model)
}

func (r *GormFactoryRepository) find(ctx context.Context, tx *gorm.DB) ([]*catalog.Factory, error) {
	var models []FactoryModel
	result := tx.Order("sort_order ASC, id ASC").Find(&models)
	if result.Error != nil {
		return nil, wrapErr("factories/select", result.Error)
	}

	factories := make([]*catalog.Factory, len(models))
	for i := range models {
		f, err := modelToFactory(&models[i])
		if err != nil {
			return nil, err
		}
		factories[i] = f
	}
	return factories, nil
}

func modelToFactory(m *FactoryModel) (*catalog.Factory, error) {
	cutoff, err := catalog.ParseCutoffDay(m.CutoffDay)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Sprintf("factory %d has invalid cutoff day", m.ID), err)
	}
	unitType, err := catalog.ParseUnitType(m.UnitType)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Sprintf("factory %d has invalid unit type", m.ID), err)
	}
	return &catalog.Factory{
		ID:                  m.ID,
		Name:                m.Name,
		OriginPort:          m.OriginPort,
		ProductionLeadDays:  m.ProductionLeadDays,
		TransportToPortDays: m.TransportToPortDays,
		CutoffDay:           cutoff,
		UnitType:            unitType,
		Active:              m.Active,
		SortOrder:           m.SortOrder,
	}, nil
}
