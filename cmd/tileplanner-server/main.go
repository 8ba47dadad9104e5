package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/adapters/httpapi"
	"github.com/andrescamacho/tileplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/tileplanner-go/internal/application/analytics"
	"github.com/andrescamacho/tileplanner-go/internal/application/ledger"
	"github.com/andrescamacho/tileplanner-go/internal/application/operations"
	"github.com/andrescamacho/tileplanner-go/internal/application/orderbuilder"
	planningapp "github.com/andrescamacho/tileplanner-go/internal/application/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
	"github.com/andrescamacho/tileplanner-go/internal/infrastructure/config"
	"github.com/andrescamacho/tileplanner-go/internal/infrastructure/database"
	"github.com/andrescamacho/tileplanner-go/internal/infrastructure/pidfile"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "tileplanner-server",
		Short:         "Inventory and shipping planner for the Guatemala tile warehouse",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)
			logger := newLogger(cfg.Logging)
			slog.SetDefault(logger)

			if cfg.API.PIDFile != "" {
				pf := pidfile.New(cfg.API.PIDFile)
				if err := pf.Acquire(); err != nil {
					return fmt.Errorf("pid file: %w", err)
				}
				defer func() { _ = pf.Release() }()
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			handlers := buildHandlers(db, cfg, logger)
			router := httpapi.NewRouter(handlers, cfg.API, logger)
			server := httpapi.NewServer(cfg.API, router, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				logger.Info("signal received", "signal", sig.String())
				if err := server.Stop(context.Background()); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				return <-errCh
			}
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)
			logger := newLogger(cfg.Logging)

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema up to date")
			return nil
		},
	}
}

// newLogger builds the process logger from configuration
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// buildHandlers wires every repository and service behind the HTTP API
func buildHandlers(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *httpapi.Handlers {
	clock := shared.SystemClock{}
	p := cfg.Planning
	m2PerPallet := decimal.NewFromFloat(p.M2PerPallet)

	factories := persistence.NewCachedFactoryRepository(persistence.NewGormFactoryRepository(db))
	products := persistence.NewGormProductRepository(db)
	routes := persistence.NewGormRouteRepository(db)
	boats := persistence.NewGormBoatRepository(db)
	inventoryRepo := persistence.NewGormInventoryRepository(db)
	productionRepo := persistence.NewGormProductionRepository(db)
	draftRepo := persistence.NewGormDraftRepository(db)
	patternRepo := persistence.NewGormCustomerPatternRepository(db)
	salesRepo := persistence.NewGormSalesRepository(db)
	orderRepo := persistence.NewGormWarehouseOrderRepository(db)
	uploadRepo := persistence.NewGormUploadHistoryRepository(db)
	freshnessRepo := persistence.NewGormFreshnessRepository(db)
	qualityChecker := persistence.NewGormDataQualityChecker(db, clock)

	velocity := analytics.NewVelocityAnalyzer(salesRepo, clock, p.VelocityLookbackDays)

	simulatorCfg := planningapp.SimulatorConfig{
		M2PerPallet:         m2PerPallet,
		WarehouseBufferDays: p.WarehouseBufferDays,
		OrderingCycleDays:   p.OrderingCycleDays,
		CustomerDemandInGap: p.CustomerDemandInGap,
	}
	deadlines := planningapp.NewDeadlineEngine(p.WarehouseBufferDays, p.OrderDeadlineDays)
	simulator := planningapp.NewSimulator(deadlines, clock, simulatorCfg)
	signals := planningapp.NewSignalAnalyzer(clock, m2PerPallet, p.OrderingCycleDays, decimal.NewFromFloat(p.MinProductionGapM2))
	merger := planningapp.NewBoatMerger(clock)

	horizon := planningapp.NewHorizonService(
		factories, products, routes, boats,
		inventoryRepo, productionRepo, draftRepo, patternRepo,
		velocity, merger, simulator, signals, clock, simulatorCfg,
	)

	drafts := planningapp.NewDraftService(draftRepo, clock)

	builder := orderbuilder.NewBuilder(clock, orderbuilder.BuilderConfig{
		M2PerPallet:          m2PerPallet,
		PalletsPerContainer:  p.PalletsPerContainer,
		MaxContainersPerBL:   p.MaxContainersPerBL,
		OrderingCycleDays:    p.OrderingCycleDays,
		ProductionBufferDays: p.ProductionBufferDays,
		KgPerM2:              decimal.NewFromFloat(p.KgPerM2),
	})
	orderBuilderSvc := orderbuilder.NewService(
		horizon, factories, products, products,
		inventoryRepo, productionRepo, patternRepo,
		velocity, builder,
		orderbuilder.LiquidationConfig{
			MinDaysOfStock:     p.LiquidationMinDaysOfStock,
			ExtremeDaysOfStock: p.LiquidationExtremeDaysOfStock,
			M2PerPallet:        m2PerPallet,
		},
		clock,
	)

	intelligence := analytics.NewIntelligenceService(salesRepo, patternRepo, products, clock)
	ledgerSvc := ledger.NewService(orderRepo, boats, clock, p.WarehouseBufferDays)
	opsSvc := operations.NewService(freshnessRepo, uploadRepo, orderRepo, boats, qualityChecker, clock)

	logger.Info("services wired", "environment", cfg.API.Environment)

	return httpapi.NewHandlers(
		factories, horizon, drafts, orderBuilderSvc,
		intelligence, opsSvc, ledgerSvc, m2PerPallet,
	)
}
