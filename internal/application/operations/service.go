// Package operations surfaces the run-state of the planning data:
// snapshot freshness, the order pipeline, and integrity diagnostics.
package operations

import (
	"context"
	"time"

	"github.com/andrescamacho/tileplanner-go/internal/domain/order"
	"github.com/andrescamacho/tileplanner-go/internal/domain/schedule"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// staleAfterDays marks a snapshot source stale once its newest row is
// older than this.
const staleAfterDays = 7

// UploadRecord is one ingestion event surfaced by the freshness endpoints
type UploadRecord struct {
	ID         int       `json:"id"`
	Source     string    `json:"source"`
	Filename   string    `json:"filename"`
	RowCount   int       `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SourceFreshness is the age of one snapshot source
type SourceFreshness struct {
	Source   string     `json:"source"`
	LatestAt *time.Time `json:"latest_at,omitempty"`
	AgeDays  *int       `json:"age_days,omitempty"`
	Stale    bool       `json:"stale"`
}

// FreshnessReport is the per-source data age picture
type FreshnessReport struct {
	Sources     []SourceFreshness `json:"sources"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// PipelineOverview is the Kanban roll-up of the order book
type PipelineOverview struct {
	Ordered         int `json:"ordered"`
	Shipped         int `json:"shipped"`
	InTransit       int `json:"in_transit"`
	DeliveredRecent int `json:"delivered_recent"`
}

// QualityCheck is one integrity diagnostic result
type QualityCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
	Count  int    `json:"count"`
}

// Ports

type FreshnessStore interface {
	LatestTimestamps(ctx context.Context) (map[string]time.Time, error)
}

type UploadStore interface {
	FindRecent(ctx context.Context, limit int) ([]UploadRecord, error)
	Record(ctx context.Context, record UploadRecord) error
}

type OrderReader interface {
	FindByStatus(ctx context.Context, statuses []order.Status) ([]*order.WarehouseOrder, error)
}

type BoatFinder interface {
	FindByID(ctx context.Context, id string) (*schedule.Boat, error)
}

// QualityRunner executes the integrity checks against the store
type QualityRunner interface {
	Run(ctx context.Context) ([]QualityCheck, error)
}

// Service answers the operational endpoints
type Service struct {
	freshness FreshnessStore
	uploads   UploadStore
	orders    OrderReader
	boats     BoatFinder
	quality   QualityRunner
	clock     shared.Clock
}

// NewService wires the operations service
func NewService(freshness FreshnessStore, uploads UploadStore, orders OrderReader, boats BoatFinder, quality QualityRunner, clock shared.Clock) *Service {
	return &Service{
		freshness: freshness,
		uploads:   uploads,
		orders:    orders,
		boats:     boats,
		quality:   quality,
		clock:     clock,
	}
}

// snapshotSources are the tables whose age the freshness report covers
var snapshotSources = []string{"warehouse_snapshots", "factory_snapshots", "transit_snapshots", "inventory_lots", "sales"}

// DataFreshness reports the newest row per snapshot source
func (s *Service) DataFreshness(ctx context.Context) (*FreshnessReport, error) {
	latest, err := s.freshness.LatestTimestamps(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	report := &FreshnessReport{GeneratedAt: now}
	for _, source := range snapshotSources {
		entry := SourceFreshness{Source: source, Stale: true}
		if at, ok := latest[source]; ok {
			t := at
			entry.LatestAt = &t
			age := shared.DaysBetween(at, now)
			entry.AgeDays = &age
			entry.Stale = age > staleAfterDays
		}
		report.Sources = append(report.Sources, entry)
	}
	return report, nil
}

// UploadHistory returns the most recent ingestion events
func (s *Service) UploadHistory(ctx context.Context, limit int) ([]UploadRecord, error) {
	if limit < 1 || limit > 100 {
		return nil, shared.NewValidationError("limit", "must be between 1 and 100")
	}
	return s.uploads.FindRecent(ctx, limit)
}

// RecordUpload appends one ingestion event, stamped with the current
// time. Importers call this after loading a snapshot or sales file.
func (s *Service) RecordUpload(ctx context.Context, source, filename string, rowCount int) (*UploadRecord, error) {
	if source == "" {
		return nil, shared.NewValidationError("source", "must not be empty")
	}
	if rowCount < 0 {
		return nil, shared.NewValidationError("row_count", "must not be negative")
	}

	record := UploadRecord{
		Source:     source,
		Filename:   filename,
		RowCount:   rowCount,
		UploadedAt: s.clock.Now(),
	}
	if err := s.uploads.Record(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Pipeline rolls the order book up into Kanban columns: pending
// orders, shipped orders still on the water, and arrivals received in
// the last 30 days.
func (s *Service) Pipeline(ctx context.Context) (*PipelineOverview, error) {
	today := s.clock.Today()

	active, err := s.orders.FindByStatus(ctx, []order.Status{order.StatusPending, order.StatusShipped, order.StatusReceived})
	if err != nil {
		return nil, err
	}

	overview := &PipelineOverview{}
	for _, o := range active {
		switch o.Status() {
		case order.StatusPending:
			overview.Ordered++
		case order.StatusShipped:
			overview.Shipped++
			boat, err := s.boats.FindByID(ctx, o.BoatID())
			if err != nil {
				if shared.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if boat.ArrivalDate.After(today) {
				overview.InTransit++
			}
		case order.StatusReceived:
			if at := o.ReceivedAt(); at != nil && shared.DaysBetween(*at, today) <= 30 {
				overview.DeliveredRecent++
			}
		}
	}
	return overview, nil
}

// DataQuality runs the integrity diagnostics
func (s *Service) DataQuality(ctx context.Context) ([]QualityCheck, error) {
	return s.quality.Run(ctx)
}
