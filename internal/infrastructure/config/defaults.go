package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "tileplanner"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "tileplanner"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// API defaults
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.Environment == "" {
		cfg.API.Environment = "development"
	}
	if cfg.API.ReadTimeout == 0 {
		cfg.API.ReadTimeout = 15 * time.Second
	}
	if cfg.API.WriteTimeout == 0 {
		cfg.API.WriteTimeout = 30 * time.Second
	}
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = 25 * time.Second
	}
	if cfg.API.ShutdownTimeout == 0 {
		cfg.API.ShutdownTimeout = 10 * time.Second
	}
	if cfg.API.RateLimit.RequestsPerSecond == 0 {
		cfg.API.RateLimit.RequestsPerSecond = 20
	}
	if cfg.API.RateLimit.Burst == 0 {
		cfg.API.RateLimit.Burst = 40
	}

	// Planning defaults
	p := &cfg.Planning
	if p.M2PerPallet == 0 {
		p.M2PerPallet = 134.4
	}
	if p.PalletsPerContainer == 0 {
		p.PalletsPerContainer = 14
	}
	if p.ContainerMaxPallets == 0 {
		p.ContainerMaxPallets = 14
	}
	if p.ContainerMaxWeightKG == 0 {
		p.ContainerMaxWeightKG = 27500
	}
	if p.MaxContainersPerBL == 0 {
		p.MaxContainersPerBL = 5
	}
	if p.KgPerM2 == 0 {
		p.KgPerM2 = 22
	}
	if p.WarehouseMaxPallets == 0 {
		p.WarehouseMaxPallets = 740
	}
	if p.WarehouseBufferDays == 0 {
		p.WarehouseBufferDays = 3
	}
	if p.OrderingCycleDays == 0 {
		p.OrderingCycleDays = 30
	}
	if p.OrderDeadlineDays == 0 {
		p.OrderDeadlineDays = 30
	}
	if p.VelocityLookbackDays == 0 {
		p.VelocityLookbackDays = 90
	}
	if p.VelocityWindowWeeks == 0 {
		p.VelocityWindowWeeks = 13
	}
	if p.HistoricalWindowWeeks == 0 {
		p.HistoricalWindowWeeks = 26
	}
	if p.LeadTimeDays == 0 {
		p.LeadTimeDays = 45
	}
	if p.SafetyStockZScore == 0 {
		p.SafetyStockZScore = 1.645
	}
	if p.StockoutCriticalDays == 0 {
		p.StockoutCriticalDays = 14
	}
	if p.StockoutWarningDays == 0 {
		p.StockoutWarningDays = 30
	}
	if p.MinProductionGapM2 == 0 {
		p.MinProductionGapM2 = 1200
	}
	if p.ProductionBufferDays == 0 {
		p.ProductionBufferDays = 7
	}
	if p.LiquidationMinDaysOfStock == 0 {
		p.LiquidationMinDaysOfStock = 120
	}
	if p.LiquidationExtremeDaysOfStock == 0 {
		p.LiquidationExtremeDaysOfStock = 365
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
