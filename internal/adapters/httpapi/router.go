package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/tileplanner-go/internal/infrastructure/config"
)

// NewRouter assembles the full route table and middleware chain:
// correlation ID, request log, rate limit, CORS, request timeout.
func NewRouter(h *Handlers, cfg config.APIConfig, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	r.HandleFunc("/factories", h.listFactories).Methods(http.MethodGet)
	r.HandleFunc("/factories/active", h.listActiveFactories).Methods(http.MethodGet)
	r.HandleFunc("/factories/{id:[0-9]+}", h.getFactory).Methods(http.MethodGet)

	r.HandleFunc("/forward-simulation/horizon", h.getDefaultHorizon).Methods(http.MethodGet)
	r.HandleFunc("/forward-simulation/horizon/{factory_id:[0-9]+}", h.getFactoryHorizon).Methods(http.MethodGet)

	r.HandleFunc("/order-builder", h.getOrderBuilder).Methods(http.MethodGet)
	r.HandleFunc("/order-builder/export", h.exportOrder).Methods(http.MethodPost)

	r.HandleFunc("/intelligence/products", h.getProductTrends).Methods(http.MethodGet)
	r.HandleFunc("/intelligence/customers", h.getCustomerInsights).Methods(http.MethodGet)
	r.HandleFunc("/intelligence/countries", h.getCountries).Methods(http.MethodGet)
	r.HandleFunc("/intelligence/dashboard", h.getIntelligenceDashboard).Methods(http.MethodGet)

	r.HandleFunc("/pipeline/overview", h.getPipelineOverview).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/stockouts", h.getStockoutDashboard).Methods(http.MethodGet)

	r.HandleFunc("/data-freshness", h.getDataFreshness).Methods(http.MethodGet)
	r.HandleFunc("/data-freshness/upload-history", h.getUploadHistory).Methods(http.MethodGet)
	r.HandleFunc("/data-freshness/upload-history", h.recordUpload).Methods(http.MethodPost)
	r.HandleFunc("/diagnostics/data-quality", h.getDataQuality).Methods(http.MethodGet)

	r.HandleFunc("/drafts/{boat_id}/factories/{factory_id:[0-9]+}", h.getDraft).Methods(http.MethodGet)
	r.HandleFunc("/drafts/{boat_id}/factories/{factory_id:[0-9]+}", h.upsertDraft).Methods(http.MethodPut)
	r.HandleFunc("/drafts/{id:[0-9]+}/status", h.transitionDraft).Methods(http.MethodPost)

	r.HandleFunc("/warehouse-orders", h.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/warehouse-orders/{id}/status", h.updateOrderStatus).Methods(http.MethodPatch)
	r.HandleFunc("/warehouse-orders/pending-by-sku", h.getPendingBySKU).Methods(http.MethodGet)

	var handler http.Handler = r
	handler = withTimeout(cfg.RequestTimeout)(handler)

	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut,
				http.MethodPatch, http.MethodDelete, http.MethodOptions,
			},
			AllowedHeaders: []string{"Content-Type", correlationHeader},
		}).Handler(handler)
	}

	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		handler = withRateLimit(limiter)(handler)
	}

	handler = withRequestLog(logger)(handler)
	handler = withCorrelationID(handler)
	return handler
}
