package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
)

// GormRouteRepository implements shipping-route reads using GORM
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM shipping-route repository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindActiveByOrigin retrieves active routes departing from a port
func (r *GormRouteRepository) FindActiveByOrigin(ctx context.Context, originPort string) ([]*catalog.ShippingRoute, error) {
	var models []ShippingRouteModel
	result := r.db.WithContext(ctx).
		Where("origin_port = ? AND active = ?", originPort, true).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("shipping_routes/select", result.Error)
	}

	routes := make([]*catalog.ShippingRoute, len(models))
	for i, m := range models {
		routes[i] = &catalog.ShippingRoute{
			ID:                 m.ID,
			Name:               m.Name,
			OriginPort:         m.OriginPort,
			DestinationPort:    m.DestinationPort,
			DepartureDayOfWeek: m.DepartureDayOfWeek,
			TransitDays:        m.TransitDays,
			FrequencyWeeks:     m.FrequencyWeeks,
			Carrier:            m.Carrier,
			Active:             m.Active,
		}
	}
	return routes, nil
}
