package persistence

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormCustomerPatternRepository implements customer-pattern reads using GORM
type GormCustomerPatternRepository struct {
	db *gorm.DB
}

// NewGormCustomerPatternRepository creates a new GORM customer-pattern repository
func NewGormCustomerPatternRepository(db *gorm.DB) *GormCustomerPatternRepository {
	return &GormCustomerPatternRepository{db: db}
}

// FindAll retrieves every stored customer pattern
func (r *GormCustomerPatternRepository) FindAll(ctx context.Context) ([]*sales.CustomerPattern, error) {
	var models []CustomerPatternModel
	result := r.db.WithContext(ctx).Order("total_revenue_usd DESC").Find(&models)
	if result.Error != nil {
		return nil, wrapErr("customer_patterns/select", result.Error)
	}

	patterns := make([]*sales.CustomerPattern, len(models))
	for i := range models {
		p, err := modelToPattern(&models[i])
		if err != nil {
			return nil, err
		}
		patterns[i] = p
	}
	return patterns, nil
}

func modelToPattern(m *CustomerPatternModel) (*sales.CustomerPattern, error) {
	var topProducts []string
	if m.TopProducts != "" {
		if err := json.Unmarshal([]byte(m.TopProducts), &topProducts); err != nil {
			return nil, shared.NewInternalError("customer pattern has invalid top_products", err)
		}
	}
	return &sales.CustomerPattern{
		CustomerNormalized: m.CustomerNormalized,
		Tier:               sales.CustomerTier(m.Tier),
		TotalRevenueUSD:    m.TotalRevenueUSD,
		AvgGapDays:         m.AvgGapDays,
		LastOrderDate:      shared.Midnight(m.LastOrderDate),
		TopProducts:        topProducts,
		AvgOrderM2:         m.AvgOrderM2,
	}, nil
}
