package persistence

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel represents the products table
type ProductModel struct {
	ID             int    `gorm:"column:id;primaryKey;autoIncrement"`
	SKU            string `gorm:"column:sku;not null;index"`
	FactoryID      int    `gorm:"column:factory_id;not null;index"`
	Category       string `gorm:"column:category"`
	RotationTag    string `gorm:"column:rotation_tag"`
	Active         bool   `gorm:"column:active;not null;default:true"`
	UnitsPerPallet *int   `gorm:"column:units_per_pallet"`
}

func (ProductModel) TableName() string {
	return "products"
}

// FactoryModel represents the factories table
type FactoryModel struct {
	ID                  int    `gorm:"column:id;primaryKey;autoIncrement"`
	Name                string `gorm:"column:name;not null"`
	OriginPort          string `gorm:"column:origin_port;not null"`
	ProductionLeadDays  int    `gorm:"column:production_lead_days;not null"`
	TransportToPortDays int    `gorm:"column:transport_to_port_days;not null"`
	CutoffDay           string `gorm:"column:cutoff_day;not null"` // weekday name
	UnitType            string `gorm:"column:unit_type;not null;default:'m2'"`
	Active              bool   `gorm:"column:active;not null;default:true"`
	SortOrder           int    `gorm:"column:sort_order;not null;default:0"`
}

func (FactoryModel) TableName() string {
	return "factories"
}

// ShippingRouteModel represents the shipping_routes table
// DepartureDayOfWeek is 0-based with 0 = Monday.
type ShippingRouteModel struct {
	ID                 int    `gorm:"column:id;primaryKey;autoIncrement"`
	Name               string `gorm:"column:name;not null"`
	OriginPort         string `gorm:"column:origin_port;not null;index"`
	DestinationPort    string `gorm:"column:destination_port;not null"`
	DepartureDayOfWeek int    `gorm:"column:departure_day_of_week;not null"`
	TransitDays        int    `gorm:"column:transit_days;not null"`
	FrequencyWeeks     int    `gorm:"column:frequency_weeks;not null;default:1"`
	Carrier            string `gorm:"column:carrier"`
	Active             bool   `gorm:"column:active;not null;default:true"`
}

func (ShippingRouteModel) TableName() string {
	return "shipping_routes"
}

// BoatModel represents the boat_schedules table. Phantom boats are
// never persisted; only real sailings live here.
type BoatModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	VesselName      string    `gorm:"column:vessel_name;not null"`
	OriginPort      string    `gorm:"column:origin_port;not null;index"`
	DestinationPort string    `gorm:"column:destination_port;not null"`
	DepartureDate   time.Time `gorm:"column:departure_date;not null;index"`
	ArrivalDate     time.Time `gorm:"column:arrival_date;not null"`
	Status          string    `gorm:"column:status;not null;default:'available'"`
	ShippingLine    string    `gorm:"column:shipping_line"`
}

func (BoatModel) TableName() string {
	return "boat_schedules"
}

// WarehouseSnapshotModel represents the warehouse_snapshots table
type WarehouseSnapshotModel struct {
	ID         int             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  int             `gorm:"column:product_id;not null;index"`
	QuantityM2 decimal.Decimal `gorm:"column:quantity_m2;type:numeric(14,4);not null"`
	SnapshotAt time.Time       `gorm:"column:snapshot_at;not null;index"`
}

func (WarehouseSnapshotModel) TableName() string {
	return "warehouse_snapshots"
}

// FactorySnapshotModel represents the factory_snapshots table (SIESA
// finished goods at origin).
type FactorySnapshotModel struct {
	ID         int             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  int             `gorm:"column:product_id;not null;index"`
	QuantityM2 decimal.Decimal `gorm:"column:quantity_m2;type:numeric(14,4);not null"`
	SnapshotAt time.Time       `gorm:"column:snapshot_at;not null;index"`
}

func (FactorySnapshotModel) TableName() string {
	return "factory_snapshots"
}

// TransitSnapshotModel represents the transit_snapshots table (bulk
// in-transit lump sums, independent of per-draft transit).
type TransitSnapshotModel struct {
	ID         int             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  int             `gorm:"column:product_id;not null;index"`
	QuantityM2 decimal.Decimal `gorm:"column:quantity_m2;type:numeric(14,4);not null"`
	SnapshotAt time.Time       `gorm:"column:snapshot_at;not null;index"`
}

func (TransitSnapshotModel) TableName() string {
	return "transit_snapshots"
}

// InventoryLotModel represents the inventory_lots table
type InventoryLotModel struct {
	ID         int             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID  int             `gorm:"column:product_id;not null;index"`
	LotCode    string          `gorm:"column:lot_code;not null"`
	QuantityM2 decimal.Decimal `gorm:"column:quantity_m2;type:numeric(14,4);not null"`
	SnapshotAt time.Time       `gorm:"column:snapshot_at;not null;index"`
}

func (InventoryLotModel) TableName() string {
	return "inventory_lots"
}

// SalesModel represents the sales table (weekly buckets)
type SalesModel struct {
	ID                 int             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID          int             `gorm:"column:product_id;not null;index"`
	WeekStart          time.Time       `gorm:"column:week_start;not null;index"`
	QuantityM2         decimal.Decimal `gorm:"column:quantity_m2;type:numeric(14,4);not null"`
	CustomerNormalized string          `gorm:"column:customer_normalized;index"`
	TotalPriceUSD      decimal.Decimal `gorm:"column:total_price_usd;type:numeric(14,4)"`
}

func (SalesModel) TableName() string {
	return "sales"
}

// ProductionScheduleModel represents the production_schedule table
type ProductionScheduleModel struct {
	ID                    int             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID             int             `gorm:"column:product_id;not null;index"`
	Status                string          `gorm:"column:status;not null;default:'scheduled'"`
	RequestedM2           decimal.Decimal `gorm:"column:requested_m2;type:numeric(14,4);not null"`
	CompletedM2           decimal.Decimal `gorm:"column:completed_m2;type:numeric(14,4);not null;default:0"`
	RequestedAt           time.Time       `gorm:"column:requested_at;not null"`
	EstimatedDeliveryDate time.Time       `gorm:"column:estimated_delivery_date;not null"`
}

func (ProductionScheduleModel) TableName() string {
	return "production_schedule"
}

// DraftModel represents the boat_factory_drafts table.
// One draft per (boat, factory) - enforced by the composite unique index.
type DraftModel struct {
	ID        int              `gorm:"column:id;primaryKey;autoIncrement"`
	BoatID    string           `gorm:"column:boat_id;not null;uniqueIndex:idx_draft_boat_factory"`
	FactoryID int              `gorm:"column:factory_id;not null;uniqueIndex:idx_draft_boat_factory"`
	Status    string           `gorm:"column:status;not null;default:'drafting'"`
	CreatedAt time.Time        `gorm:"column:created_at;not null"`
	UpdatedAt time.Time        `gorm:"column:updated_at;not null"`
	Items     []DraftItemModel `gorm:"foreignKey:DraftID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (DraftModel) TableName() string {
	return "boat_factory_drafts"
}

// DraftItemModel represents the draft_items table
type DraftItemModel struct {
	ID              int    `gorm:"column:id;primaryKey;autoIncrement"`
	DraftID         int    `gorm:"column:draft_id;not null;index"`
	ProductID       int    `gorm:"column:product_id;not null"`
	SKU             string `gorm:"column:sku;not null"`
	SelectedPallets int    `gorm:"column:selected_pallets;not null;default:0"`
	BLNumber        *int   `gorm:"column:bl_number"`
}

func (DraftItemModel) TableName() string {
	return "draft_items"
}

// WarehouseOrderModel represents the warehouse_orders table
type WarehouseOrderModel struct {
	ID            string                    `gorm:"column:id;primaryKey"`
	BoatID        string                    `gorm:"column:boat_id;not null;index"`
	BoatName      string                    `gorm:"column:boat_name;not null"`
	Status        string                    `gorm:"column:status;not null;default:'pending';index"`
	TotalPallets  int                       `gorm:"column:total_pallets;not null"`
	TotalM2       decimal.Decimal           `gorm:"column:total_m2;type:numeric(14,4);not null"`
	Containers    int                       `gorm:"column:containers;not null"`
	TotalWeightKG decimal.Decimal           `gorm:"column:total_weight_kg;type:numeric(14,4);not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;not null"`
	ShippedAt     *time.Time                `gorm:"column:shipped_at"`
	ReceivedAt    *time.Time                `gorm:"column:received_at"`
	CancelledAt   *time.Time                `gorm:"column:cancelled_at"`
	Items         []WarehouseOrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (WarehouseOrderModel) TableName() string {
	return "warehouse_orders"
}

// WarehouseOrderItemModel represents the warehouse_order_items table
type WarehouseOrderItemModel struct {
	ID        int             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   string          `gorm:"column:order_id;not null;index"`
	ProductID int             `gorm:"column:product_id;not null"`
	SKU       string          `gorm:"column:sku;not null"`
	Pallets   int             `gorm:"column:pallets;not null"`
	M2        decimal.Decimal `gorm:"column:m2;type:numeric(14,4);not null"`
	BLNumber  *int            `gorm:"column:bl_number"`
	Score     *int            `gorm:"column:score"`
}

func (WarehouseOrderItemModel) TableName() string {
	return "warehouse_order_items"
}

// CustomerPatternModel represents the customer_patterns table
type CustomerPatternModel struct {
	ID                 int             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerNormalized string          `gorm:"column:customer_normalized;not null;uniqueIndex"`
	Tier               string          `gorm:"column:tier;not null;default:'C'"`
	TotalRevenueUSD    decimal.Decimal `gorm:"column:total_revenue_usd;type:numeric(14,4);not null;default:0"`
	AvgGapDays         int             `gorm:"column:avg_gap_days;not null;default:0"`
	LastOrderDate      time.Time       `gorm:"column:last_order_date"`
	TopProducts        string          `gorm:"column:top_products;type:text"` // JSON array of SKUs
	AvgOrderM2         decimal.Decimal `gorm:"column:avg_order_m2;type:numeric(14,4);not null;default:0"`
}

func (CustomerPatternModel) TableName() string {
	return "customer_patterns"
}

// UploadHistoryModel represents the upload_history table
type UploadHistoryModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	Source     string    `gorm:"column:source;not null;index"`
	Filename   string    `gorm:"column:filename"`
	RowCount   int       `gorm:"column:row_count;not null;default:0"`
	UploadedAt time.Time `gorm:"column:uploaded_at;not null;index"`
}

func (UploadHistoryModel) TableName() string {
	return "upload_history"
}
