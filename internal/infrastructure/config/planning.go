package config

// PlanningConfig carries every tunable constant of the planning core.
// Defaults match the documented operating values for the Guatemala
// warehouse; all can be overridden per environment.
type PlanningConfig struct {
	// Container / pallet arithmetic
	M2PerPallet          float64 `mapstructure:"m2_per_pallet" validate:"gt=0"`
	PalletsPerContainer  int     `mapstructure:"pallets_per_container" validate:"min=1"`
	ContainerMaxPallets  int     `mapstructure:"container_max_pallets" validate:"min=1"`
	ContainerMaxWeightKG float64 `mapstructure:"container_max_weight_kg" validate:"gt=0"`
	ContainerMaxM2       float64 `mapstructure:"container_max_m2" validate:"gte=0"`
	MaxContainersPerBL   int     `mapstructure:"max_containers_per_bl" validate:"min=1,max=5"`
	BoatMinContainers    int     `mapstructure:"boat_min_containers" validate:"min=0"`
	BoatMaxContainers    int     `mapstructure:"boat_max_containers" validate:"min=0"`
	KgPerM2              float64 `mapstructure:"kg_per_m2" validate:"gt=0"`

	// Warehouse capacity
	WarehouseMaxPallets int     `mapstructure:"warehouse_max_pallets" validate:"min=1"`
	WarehouseMaxM2      float64 `mapstructure:"warehouse_max_m2" validate:"gte=0"`

	// Timeline constants
	WarehouseBufferDays int `mapstructure:"warehouse_buffer_days" validate:"min=0"`
	OrderingCycleDays   int `mapstructure:"ordering_cycle_days" validate:"min=1"`
	OrderDeadlineDays   int `mapstructure:"order_deadline_days" validate:"min=1"`

	// Velocity windows
	VelocityLookbackDays  int `mapstructure:"velocity_lookback_days" validate:"min=7"`
	VelocityWindowWeeks   int `mapstructure:"velocity_window_weeks" validate:"min=1"`
	HistoricalWindowWeeks int `mapstructure:"historical_window_weeks" validate:"min=1"`

	// Safety stock
	LeadTimeDays      int     `mapstructure:"lead_time_days" validate:"min=1"`
	SafetyStockZScore float64 `mapstructure:"safety_stock_z_score" validate:"gt=0"`

	// Alert thresholds (fallback when no boats are scheduled)
	StockoutCriticalDays int `mapstructure:"stockout_critical_days" validate:"min=1"`
	StockoutWarningDays  int `mapstructure:"stockout_warning_days" validate:"min=1"`

	// Factory-order signal
	MinProductionGapM2   float64 `mapstructure:"min_production_gap_m2" validate:"gte=0"`
	ProductionBufferDays int     `mapstructure:"production_buffer_days" validate:"min=0"`

	// Liquidation insight thresholds
	LiquidationMinDaysOfStock     int `mapstructure:"liquidation_min_days_of_stock" validate:"min=1"`
	LiquidationExtremeDaysOfStock int `mapstructure:"liquidation_extreme_days_of_stock" validate:"min=1"`

	// CustomerDemandInGap additively injects expected m² from customers
	// due soon into the coverage gap. Off by default until the
	// customer-pattern semantics are confirmed not to double-count
	// velocity-derived demand.
	CustomerDemandInGap bool `mapstructure:"customer_demand_in_gap"`
}
