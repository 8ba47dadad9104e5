package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/sales"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormSalesRepository implements weekly-sales reads using GORM
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GORM sales repository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

// FindInWindow retrieves weekly buckets with week_start in [from, to),
// ordered by product then week.
func (r *GormSalesRepository) FindInWindow(ctx context.Context, from, to time.Time) ([]*sales.Record, error) {
	var models []SalesModel
	result := r.db.WithContext(ctx).
		Where("week_start >= ? AND week_start < ?", from, to).
		Order("product_id ASC, week_start ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("sales/select", result.Error)
	}
	return modelsToRecords(models), nil
}

func modelsToRecords(models []SalesModel) []*sales.Record {
	records := make([]*sales.Record, len(models))
	for i, m := range models {
		records[i] = &sales.Record{
			ProductID:          m.ProductID,
			WeekStart:          shared.Midnight(m.WeekStart),
			QuantityM2:         m.QuantityM2,
			CustomerNormalized: m.CustomerNormalized,
			TotalPriceUSD:      m.TotalPriceUSD,
		}
	}
	return records
}
