package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormBoatRepository implements boat-schedule reads using GORM
type GormBoatRepository struct {
	db *gorm.DB
}

// NewGormBoatRepository creates a new GORM boat repository
func NewGormBoatRepository(db *gorm.DB) *GormBoatRepository {
	return &GormBoatRepository{db: db}
}

// FindByID retrieves one boat
func (r *GormBoatRepository) FindByID(ctx context.Context, id string) (*schedule.Boat, error) {
	var model BoatModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, shared.NewNotFoundError("boat", id)
		}
		return nil, wrapErr("boat_schedules/select", result.Error)
	}
	return modelToBoat(&model)
}

// FindBookable retrieves real boats (available or booked) departing
// from a port within (after, until], sorted by departure.
func (r *GormBoatRepository) FindBookable(ctx context.Context, originPort string, after, until time.Time) ([]*schedule.Boat, error) {
	var models []BoatModel
	result := r.db.WithContext(ctx).
		Where("origin_port = ? AND departure_date > ? AND departure_date <= ? AND status IN ?",
			originPort, after, until, []string{string(schedule.BoatAvailable), string(schedule.BoatBooked)}).
		Order("departure_date ASC").
		Find(&models)
	if result.Error != nil {
		return nil, wrapErr("boat_schedules/select", result.Error)
	}

	boats := make([]*schedule.Boat, len(models))
	for i := range models {
		b, err := modelToBoat(&models[i])
		if err != nil {
			return nil, err
		}
		boats[i] = b
	}
	return boats, nil
}

func modelToBoat(m *BoatModel) (*schedule.Boat, error) {
	status, err := schedule.ParseBoatStatus(m.Status)
	if err != nil {
		return nil, shared.NewInternalError("boat has invalid status", err)
	}
	return &schedule.Boat{
		ID:              m.ID,
		VesselName:      m.VesselName,
		OriginPort:      m.OriginPort,
		DestinationPort: m.DestinationPort,
		DepartureDate:   shared.Midnight(m.DepartureDate),
		ArrivalDate:     shared.Midnight(m.ArrivalDate),
		Status:          status,
		ShippingLine:    m.ShippingLine,
		TransitDays:     shared.DaysBetween(m.DepartureDate, m.ArrivalDate),
	}, nil
}
