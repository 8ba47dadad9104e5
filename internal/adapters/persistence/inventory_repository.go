package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/inventory"
)

// GormInventoryRepository exposes the latest-per-source inventory view.
// Each of the three sources (warehouse, factory-finished, in-transit)
// independently contributes its most recent row per product; an absent
// row means zero. The sources are expected to lag each other.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// snapshotRow is the scan target for the latest-per-product queries
type snapshotRow struct {
	ProductID  int
	QuantityM2 decimal.Decimal
	SnapshotAt time.Time
}

// latestPerProduct returns the most recent row per product from one
// snapshot table. The self-join keeps the query portable between
// postgres and sqlite.
func (r *GormInventoryRepository) latestPerProduct(ctx context.Context, table string) (map[int]snapshotRow, error) {
	query := fmt.Sprintf(`
		SELECT s.product_id, s.quantity_m2, s.snapshot_at
		FROM %s s
		JOIN (
			SELECT product_id, MAX(snapshot_at) AS max_at
			FROM %s
			GROUP BY product_id
		) latest ON s.product_id = latest.product_id AND s.snapshot_at = latest.max_at`, table, table)

	var rows []snapshotRow
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, wrapErr(table+"/select", err)
	}

	out := make(map[int]snapshotRow, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row
	}
	return out, nil
}

// LatestSnapshots assembles the per-product inventory view across all
// three sources for the given products. Products without any rows get
// an all-zero snapshot.
func (r *GormInventoryRepository) LatestSnapshots(ctx context.Context, productIDs []int) (map[int]*inventory.Snapshot, error) {
	warehouse, err := r.latestPerProduct(ctx, "warehouse_snapshots")
	if err != nil {
		return nil, err
	}
	factory, err := r.latestPerProduct(ctx, "factory_snapshots")
	if err != nil {
		return nil, err
	}
	transit, err := r.latestPerProduct(ctx, "transit_snapshots")
	if err != nil {
		return nil, err
	}
	lots, err := r.latestLots(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[int]*inventory.Snapshot, len(productIDs))
	for _, id := range productIDs {
		snap := &inventory.Snapshot{ProductID: id}
		if row, ok := warehouse[id]; ok {
			snap.WarehouseM2 = row.QuantityM2
			at := row.SnapshotAt
			snap.WarehouseAsOf = &at
		}
		if row, ok := factory[id]; ok {
			snap.FactoryAvailableM2 = row.QuantityM2
			at := row.SnapshotAt
			snap.FactoryAsOf = &at
		}
		if row, ok := transit[id]; ok {
			snap.InTransitM2 = row.QuantityM2
			at := row.SnapshotAt
			snap.InTransitAsOf = &at
		}
		if lot, ok := lots[id]; ok {
			snap.LargestLotM2 = lot.QuantityM2
			snap.LotCode = lot.LotCode
			snap.LotCount = lot.LotCount
		}
		out[id] = snap
	}
	return out, nil
}

// lotRow aggregates the latest lot snapshot per product
type lotRow struct {
	ProductID  int
	LotCode    string
	QuantityM2 decimal.Decimal
	LotCount   int
}

// latestLots returns the largest lot and lot count per product from
// the most recent lot snapshot.
func (r *GormInventoryRepository) latestLots(ctx context.Context) (map[int]lotRow, error) {
	query := `
		SELECT l.product_id, l.lot_code, l.quantity_m2, counts.lot_count
		FROM inventory_lots l
		JOIN (
			SELECT product_id, MAX(snapshot_at) AS max_at
			FROM inventory_lots
			GROUP BY product_id
		) latest ON l.product_id = latest.product_id AND l.snapshot_at = latest.max_at
		JOIN (
			SELECT product_id, snapshot_at, COUNT(*) AS lot_count, MAX(quantity_m2) AS max_qty
			FROM inventory_lots
			GROUP BY product_id, snapshot_at
		) counts ON l.product_id = counts.product_id
			AND l.snapshot_at = counts.snapshot_at
			AND l.quantity_m2 = counts.max_qty`

	var rows []lotRow
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, wrapErr("inventory_lots/select", err)
	}

	out := make(map[int]lotRow, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row
	}
	return out, nil
}
