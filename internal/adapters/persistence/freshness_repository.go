package persistence

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// GormFreshnessRepository answers "how old is each data source" queries
type GormFreshnessRepository struct {
	db *gorm.DB
}

// NewGormFreshnessRepository creates a new GORM freshness repository
func NewGormFreshnessRepository(db *gorm.DB) *GormFreshnessRepository {
	return &GormFreshnessRepository{db: db}
}

// LatestTimestamps returns the newest row timestamp per snapshot
// source, keyed by table name. Sources with no rows are absent from
// the map.
func (r *GormFreshnessRepository) LatestTimestamps(ctx context.Context) (map[string]time.Time, error) {
	sources := []struct {
		table  string
		column string
	}{
		{"warehouse_snapshots", "snapshot_at"},
		{"factory_snapshots", "snapshot_at"},
		{"transit_snapshots", "snapshot_at"},
		{"inventory_lots", "snapshot_at"},
		{"sales", "week_start"},
	}

	out := make(map[string]time.Time, len(sources))
	for _, src := range sources {
		var latest sql.NullTime
		err := r.db.WithContext(ctx).
			Table(src.table).
			Select("MAX(" + src.column + ")").
			Scan(&latest).Error
		if err != nil {
			return nil, wrapErr("freshness/"+src.table, err)
		}
		if latest.Valid {
			out[src.table] = latest.Time
		}
	}
	return out, nil
}
