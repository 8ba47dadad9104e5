package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/application/operations"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// GormDataQualityChecker runs the integrity diagnostics directly
// against the store. Each check is a count query; zero means healthy.
type GormDataQualityChecker struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormDataQualityChecker creates a new data-quality checker
func NewGormDataQualityChecker(db *gorm.DB, clock shared.Clock) *GormDataQualityChecker {
	return &GormDataQualityChecker{db: db, clock: clock}
}

type qualityProbe struct {
	name   string
	detail string
	sql    string
	args   []interface{}
}

// Run executes every probe and reports each as ok/violation with the
// offending row count.
func (c *GormDataQualityChecker) Run(ctx context.Context) ([]operations.QualityCheck, error) {
	today := c.clock.Today()
	staleCutoff := today.AddDate(0, 0, -7)

	probes := []qualityProbe{
		{
			name:   "orphan_sales",
			detail: "sales rows referencing a product that no longer exists",
			sql:    `SELECT COUNT(*) FROM sales s WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.id = s.product_id)`,
		},
		{
			name:   "orphan_warehouse_snapshots",
			detail: "warehouse snapshot rows referencing a missing product",
			sql:    `SELECT COUNT(*) FROM warehouse_snapshots w WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.id = w.product_id)`,
		},
		{
			name:   "orphan_factory_snapshots",
			detail: "factory snapshot rows referencing a missing product",
			sql:    `SELECT COUNT(*) FROM factory_snapshots f WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.id = f.product_id)`,
		},
		{
			name:   "orphan_transit_snapshots",
			detail: "transit snapshot rows referencing a missing product",
			sql:    `SELECT COUNT(*) FROM transit_snapshots t WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.id = t.product_id)`,
		},
		{
			name:   "orphan_production_rows",
			detail: "production schedule rows referencing a missing product",
			sql:    `SELECT COUNT(*) FROM production_schedule ps WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.id = ps.product_id)`,
		},
		{
			name:   "orphan_draft_items",
			detail: "draft items whose parent draft is gone",
			sql:    `SELECT COUNT(*) FROM draft_items di WHERE NOT EXISTS (SELECT 1 FROM boat_factory_drafts d WHERE d.id = di.draft_id)`,
		},
		{
			name:   "orphan_order_items",
			detail: "order items whose parent order is gone",
			sql:    `SELECT COUNT(*) FROM warehouse_order_items oi WHERE NOT EXISTS (SELECT 1 FROM warehouse_orders o WHERE o.id = oi.order_id)`,
		},
		{
			name:   "negative_sales_quantity",
			detail: "sales rows with negative quantity",
			sql:    `SELECT COUNT(*) FROM sales WHERE quantity_m2 < 0`,
		},
		{
			name:   "negative_snapshot_quantity",
			detail: "snapshot rows with negative quantity",
			sql: `SELECT (SELECT COUNT(*) FROM warehouse_snapshots WHERE quantity_m2 < 0)
			    + (SELECT COUNT(*) FROM factory_snapshots WHERE quantity_m2 < 0)
			    + (SELECT COUNT(*) FROM transit_snapshots WHERE quantity_m2 < 0)`,
		},
		{
			name:   "future_sales_weeks",
			detail: "sales buckets dated after today",
			sql:    `SELECT COUNT(*) FROM sales WHERE week_start > ?`,
			args:   []interface{}{today},
		},
		{
			name:   "duplicate_active_skus",
			detail: "multiple active products sharing one SKU",
			sql: `SELECT COUNT(*) FROM (
				SELECT sku FROM products WHERE active GROUP BY sku HAVING COUNT(*) > 1
			) dup`,
		},
		{
			name:   "boats_arrive_before_departure",
			detail: "boat schedules whose arrival precedes departure",
			sql:    `SELECT COUNT(*) FROM boat_schedules WHERE arrival_date < departure_date`,
		},
		{
			name:   "drafts_on_departed_boats",
			detail: "tentative drafts attached to boats that already sailed",
			sql: `SELECT COUNT(*) FROM boat_factory_drafts d
				JOIN boat_schedules b ON b.id = d.boat_id
				WHERE d.status IN ('drafting', 'action_needed') AND b.departure_date < ?`,
			args: []interface{}{today},
		},
		{
			name:   "delivery_before_request",
			detail: "production rows delivering before they were requested",
			sql:    `SELECT COUNT(*) FROM production_schedule WHERE estimated_delivery_date < requested_at`,
		},
		{
			name:   "stale_warehouse_snapshots",
			detail: "warehouse snapshot data older than 7 days",
			sql: `SELECT CASE
				WHEN (SELECT MAX(snapshot_at) FROM warehouse_snapshots) IS NULL THEN 1
				WHEN (SELECT MAX(snapshot_at) FROM warehouse_snapshots) < ? THEN 1
				ELSE 0 END`,
			args: []interface{}{staleCutoff},
		},
	}

	checks := make([]operations.QualityCheck, 0, len(probes))
	for _, probe := range probes {
		var count int
		err := c.db.WithContext(ctx).Raw(probe.sql, probe.args...).Scan(&count).Error
		if err != nil {
			return nil, wrapErr("data_quality/"+probe.name, err)
		}
		check := operations.QualityCheck{
			Name:  probe.name,
			OK:    count == 0,
			Count: count,
		}
		if count > 0 {
			check.Detail = fmt.Sprintf("%s (%d found)", probe.detail, count)
		}
		checks = append(checks, check)
	}
	return checks, nil
}
