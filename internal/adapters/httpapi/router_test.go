package httpapi_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	"github.com/andrescamacho/tileplanner-go/test/helpers"
)

var routerToday = shared.Date(2026, time.March, 1)

func newTestRouter(t *testing.T, apiCfg config.APIConfig) (http.Handler, *gorm.DB) {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewFixedClock(routerToday)
	m2PerPallet := decimal.NewFromFloat(134.4)

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

	velocity := analytics.NewVelocityAnalyzer(salesRepo, clock, 90)
	simCfg := planningapp.SimulatorConfig{
		M2PerPallet:         m2PerPallet,
		WarehouseBufferDays: 3,
		OrderingCycleDays:   30,
	}
	simulator := planningapp.NewSimulator(planningapp.NewDeadlineEngine(3, 30), clock, simCfg)
	signals := planningapp.NewSignalAnalyzer(clock, m2PerPallet, 30, decimal.NewFromInt(1200))
	horizon := planningapp.NewHorizonService(
		factories, products, routes, boats,
		inventoryRepo, productionRepo, draftRepo, patternRepo,
		velocity, planningapp.NewBoatMerger(clock), simulator, signals, clock, simCfg,
	)
	drafts := planningapp.NewDraftService(draftRepo, clock)
	builder := orderbuilder.NewBuilder(clock, orderbuilder.BuilderConfig{
		M2PerPallet:         m2PerPallet,
		PalletsPerContainer: 14,
		MaxContainersPerBL:  5,
		OrderingCycleDays:   30,
		KgPerM2:             decimal.NewFromInt(22),
	})
	builderSvc := orderbuilder.NewService(
		horizon, factories, products, products,
		inventoryRepo, productionRepo, patternRepo, velocity, builder,
		orderbuilder.LiquidationConfig{MinDaysOfStock: 120, ExtremeDaysOfStock: 365, M2PerPallet: m2PerPallet},
		clock,
	)
	intelligence := analytics.NewIntelligenceService(salesRepo, patternRepo, products, clock)
	ledgerSvc := ledger.NewService(orderRepo, boats, clock, 3)
	opsSvc := operations.NewService(
		persistence.NewGormFreshnessRepository(db),
		persistence.NewGormUploadHistoryRepository(db),
		orderRepo, boats,
		persistence.NewGormDataQualityChecker(db, clock),
		clock,
	)

	handlers := httpapi.NewHandlers(factories, horizon, drafts, builderSvc, intelligence, opsSvc, ledgerSvc, m2PerPallet)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpapi.NewRouter(handlers, apiCfg, logger), db
}

func errorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Error.Code
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, config.APIConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListFactoriesReturnsSeededRows(t *testing.T) {
	router, db := newTestRouter(t, config.APIConfig{})
	require.NoError(t, db.Create(&persistence.FactoryModel{
		Name: "Tarragona", OriginPort: "Barcelona",
		ProductionLeadDays: 15, TransportToPortDays: 2,
		CutoffDay: "Tuesday", UnitType: "m2", Active: true,
	}).Error)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/factories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var factories []map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&factories))
	require.Len(t, factories, 1)
	assert.Equal(t, "Tarragona", factories[0]["name"])
	assert.Equal(t, "Barcelona", factories[0]["origin_port"])
}

func TestUnknownFactoryMapsToNotFoundEnvelope(t *testing.T) {
	router, _ := newTestRouter(t, config.APIConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/factories/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec.Body))
}

func TestHorizonRejectsMonthsOutOfRange(t *testing.T) {
	router, _ := newTestRouter(t, config.APIConfig{})

	for _, months := range []string{"0", "13"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forward-simulation/horizon/1?months="+months, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "months=%s", months)
		assert.Equal(t, "validation", errorCode(t, rec.Body))
	}
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t, config.APIConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Correlation-ID"))

	// A request without the header still gets one minted
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestRateLimitReturns429(t *testing.T) {
	router, _ := newTestRouter(t, config.APIConfig{
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1},
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "rate_limited", errorCode(t, second.Body))
}

func TestDraftLifecycleOverHTTP(t *testing.T) {
	router, db := newTestRouter(t, config.APIConfig{})
	require.NoError(t, db.Create(&persistence.FactoryModel{
		Name: "Tarragona", OriginPort: "Barcelona",
		ProductionLeadDays: 15, TransportToPortDays: 2,
		CutoffDay: "Tuesday", UnitType: "m2", Active: true,
	}).Error)
	require.NoError(t, db.Create(&persistence.ProductModel{
		SKU: "BALTICO 51X51", FactoryID: 1, Active: true,
	}).Error)

	body := `{"items":[{"product_id":1,"sku":"BALTICO 51X51","selected_pallets":4}]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/drafts/boat-1/factories/1", strings.NewReader(body))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "drafting", created.Status)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drafts/boat-1/factories/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// drafting -> ordered is legal; ordered -> drafting is not
	transition := func(id int, to string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/drafts/%d/status", id),
			strings.NewReader(fmt.Sprintf(`{"status":%q}`, to)))
		router.ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusOK, transition(created.ID, "ordered").Code)

	illegal := transition(created.ID, "drafting")
	assert.Equal(t, http.StatusConflict, illegal.Code)
	assert.Equal(t, "conflict", errorCode(t, illegal.Body))
}
