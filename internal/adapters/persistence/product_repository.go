package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormProductRepository implements product reads using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID retrieves a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int) (*catalog.Product, error) {
	var model ProductModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("product", id)
		}
		return nil, wrapErr("products/select", result.Error)
	}
	return modelToProduct(&model), nil
}

// FindBySKU retrieves an active product by SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var model ProductModel
	result := r.db.WithContext(ctx).Where("sku = ? AND active = ?", sku, true).First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("product", sku)
		}
		return nil, wrapErr("products/select", result.Error)
	}
	return modelToProduct(&model), nil
}

// FindActiveByFactory retrieves all active products of a factory,
// ordered by SKU for stable output.
func (r *GormProductRepository) FindActiveByFactory(ctx context.Context, factoryID int) ([]*catalog.Product, error) {
	var models []ProductModel
	result := r.db.WithContext(ctx).
		Where("factory_id = ? AND active = ?", factoryID, true).
		Order("sku ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("products/select", result.Error)
	}

	products := make([]*catalog.Product, len(models))
	for i := range models {
		products[i] = modelToProduct(&models[i])
	}
	return products, nil
}

// FindAllActive retrieves every active product
func (r *GormProductRepository) FindAllActive(ctx context.Context) ([]*catalog.Product, error) {
	var models []ProductModel
	result := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sku ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("products/select", result.Error)
	}

	products := make([]*catalog.Product, len(models))
	for i := range models {
		products[i] = modelToProduct(&models[i])
	}
	return products, nil
}

func modelToProduct(m *ProductModel) *catalog.Product {
	return &catalog.Product{
		ID:             m.ID,
		SKU:            m.SKU,
		FactoryID:      m.FactoryID,
		Category:       m.Category,
		RotationTag:    m.RotationTag,
		Active:         m.Active,
		UnitsPerPallet: m.UnitsPerPallet,
	}
}
