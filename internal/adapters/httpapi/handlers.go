package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/tileplanner-go/internal/adapters/xlsx"
	"github.com/andrescamacho/tileplanner-go/internal/application/analytics"
	"github.com/andrescamacho/tileplanner-go/internal/application/ledger"
	"github.com/andrescamacho/tileplanner-go/internal/application/operations"
	"github.com/andrescamacho/tileplanner-go/internal/application/orderbuilder"
	planningapp "github.com/andrescamacho/tileplanner-go/internal/application/planning"
	"github.com/andrescamacho/tileplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/tileplanner-go/internal/domain/draft"
	"github.com/andrescamacho/tileplanner-go/internal/domain/order"
	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// FactoryDirectory is the factory lookup surface the handlers need
type FactoryDirectory interface {
	FindByID(ctx context.Context, id int) (*catalog.Factory, error)
	FindAll(ctx context.Context) ([]*catalog.Factory, error)
	FindActive(ctx context.Context) ([]*catalog.Factory, error)
	DefaultActive(ctx context.Context) (*catalog.Factory, error)
}

// Handlers binds every application service to the HTTP surface
type Handlers struct {
	factories    FactoryDirectory
	horizon      *planningapp.HorizonService
	drafts       *planningapp.DraftService
	builder      *orderbuilder.Service
	intelligence *analytics.IntelligenceService
	operations   *operations.Service
	ledger       *ledger.Service

	m2PerPallet decimal.Decimal
}

// NewHandlers wires the handler set
func NewHandlers(
	factories FactoryDirectory,
	horizon *planningapp.HorizonService,
	drafts *planningapp.DraftService,
	builder *orderbuilder.Service,
	intelligence *analytics.IntelligenceService,
	ops *operations.Service,
	ldg *ledger.Service,
	m2PerPallet decimal.Decimal,
) *Handlers {
	return &Handlers{
		factories:    factories,
		horizon:      horizon,
		drafts:       drafts,
		builder:      builder,
		intelligence: intelligence,
		operations:   ops,
		ledger:       ldg,
		m2PerPallet:  m2PerPallet,
	}
}

// factoryView is the JSON shape of one factory
type factoryView struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	OriginPort          string `json:"origin_port"`
	ProductionLeadDays  int    `json:"production_lead_days"`
	TransportToPortDays int    `json:"transport_to_port_days"`
	CutoffDay           string `json:"cutoff_day"`
	UnitType            string `json:"unit_type"`
	Active              bool   `json:"active"`
}

func toFactoryView(f *catalog.Factory) factoryView {
	return factoryView{
		ID:                  f.ID,
		Name:                f.Name,
		OriginPort:          f.OriginPort,
		ProductionLeadDays:  f.ProductionLeadDays,
		TransportToPortDays: f.TransportToPortDays,
		CutoffDay:           f.CutoffDay.String(),
		UnitType:            string(f.UnitType),
		Active:              f.Active,
	}
}

func (h *Handlers) listFactories(w http.ResponseWriter, r *http.Request) {
	factories, err := h.factories.FindAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]factoryView, len(factories))
	for i, f := range factories {
		views[i] = toFactoryView(f)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) listActiveFactories(w http.ResponseWriter, r *http.Request) {
	factories, err := h.factories.FindActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]factoryView, len(factories))
	for i, f := range factories {
		views[i] = toFactoryView(f)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) getFactory(w http.ResponseWriter, r *http.Request) {
	id, err := intVar(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	factory, err := h.factories.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFactoryView(factory))
}

func (h *Handlers) getDefaultHorizon(w http.ResponseWriter, r *http.Request) {
	factory, err := h.factories.DefaultActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondHorizon(w, r, factory.ID)
}

func (h *Handlers) getFactoryHorizon(w http.ResponseWriter, r *http.Request) {
	factoryID, err := intVar(r, "factory_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondHorizon(w, r, factoryID)
}

func (h *Handlers) respondHorizon(w http.ResponseWriter, r *http.Request, factoryID int) {
	months, err := queryInt(r, "months", 3)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if months < 1 || months > 12 {
		writeError(w, r, shared.NewValidationError("months", "must be between 1 and 12"))
		return
	}
	horizon, err := h.horizon.GetHorizon(r.Context(), factoryID, months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, horizon)
}

func (h *Handlers) getOrderBuilder(w http.ResponseWriter, r *http.Request) {
	numBLs, err := queryInt(r, "num_bls", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := h.builder.GetPlan(r.Context(), orderbuilder.PlanQuery{
		BoatID:   r.URL.Query().Get("boat_id"),
		NumBLs:   numBLs,
		Excluded: r.URL.Query()["excluded_skus"],
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// exportPayload is the export request body
type exportPayload struct {
	BoatDeparture string                         `json:"boat_departure" validate:"required,datetime=2006-01-02"`
	Products      []orderbuilder.ExportSelection `json:"products" validate:"required,min=1"`
}

var payloadValidator = validator.New()

func (h *Handlers) exportOrder(w http.ResponseWriter, r *http.Request) {
	var payload exportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", "invalid JSON"))
		return
	}
	if err := payloadValidator.Struct(payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", err.Error()))
		return
	}
	departure, err := time.Parse("2006-01-02", payload.BoatDeparture)
	if err != nil {
		writeError(w, r, shared.NewValidationError("boat_departure", "must be YYYY-MM-DD"))
		return
	}

	resolved, err := h.builder.ResolveExport(r.Context(), orderbuilder.ExportRequest{
		BoatDeparture: departure,
		Products:      payload.Products,
	}, h.m2PerPallet)
	if err != nil {
		writeError(w, r, err)
		return
	}

	workbook, err := xlsx.WriteFactoryOrder(resolved)
	if err != nil {
		writeError(w, r, shared.NewInternalError("xlsx render failed", err))
		return
	}

	filename := fmt.Sprintf("pedido_%s.xlsx", resolved.OrderDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func (h *Handlers) trendQuery(r *http.Request) (analytics.TrendQuery, error) {
	period, err := queryInt(r, "period_days", 0)
	if err != nil {
		return analytics.TrendQuery{}, err
	}
	comparison, err := queryInt(r, "comparison_days", 0)
	if err != nil {
		return analytics.TrendQuery{}, err
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return analytics.TrendQuery{}, err
	}
	return analytics.TrendQuery{PeriodDays: period, ComparisonDays: comparison, Limit: limit}, nil
}

func (h *Handlers) getProductTrends(w http.ResponseWriter, r *http.Request) {
	query, err := h.trendQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	trends, err := h.intelligence.ProductTrends(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func (h *Handlers) getCustomerInsights(w http.ResponseWriter, r *http.Request) {
	query, err := h.trendQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	insights, err := h.intelligence.CustomerInsights(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *Handlers) getCountries(w http.ResponseWriter, r *http.Request) {
	query, err := h.trendQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	countries, err := h.intelligence.Countries(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

func (h *Handlers) getIntelligenceDashboard(w http.ResponseWriter, r *http.Request) {
	query, err := h.trendQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dashboard, err := h.intelligence.DashboardSummary(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handlers) getPipelineOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.operations.Pipeline(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handlers) getStockoutDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.builder.GetStockoutSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) getDataFreshness(w http.ResponseWriter, r *http.Request) {
	report, err := h.operations.DataFreshness(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) getUploadHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.operations.UploadHistory(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// uploadPayload records one ingestion event
type uploadPayload struct {
	Source   string `json:"source"`
	Filename string `json:"filename"`
	RowCount int    `json:"row_count"`
}

func (h *Handlers) recordUpload(w http.ResponseWriter, r *http.Request) {
	var payload uploadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", "invalid JSON"))
		return
	}
	record, err := h.operations.RecordUpload(r.Context(), payload.Source, payload.Filename, payload.RowCount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handlers) getDataQuality(w http.ResponseWriter, r *http.Request) {
	checks, err := h.operations.DataQuality(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checks)
}

// draftView is the JSON shape of one draft
type draftView struct {
	ID        int             `json:"id"`
	BoatID    string          `json:"boat_id"`
	FactoryID int             `json:"factory_id"`
	Status    draft.Status    `json:"status"`
	Items     []draftItemView `json:"items"`
}

type draftItemView struct {
	ProductID       int    `json:"product_id"`
	SKU             string `json:"sku"`
	SelectedPallets int    `json:"selected_pallets"`
	BLNumber        *int   `json:"bl_number,omitempty"`
}

func toDraftView(d *draft.Draft) draftView {
	view := draftView{
		ID:        d.ID(),
		BoatID:    d.BoatID(),
		FactoryID: d.FactoryID(),
		Status:    d.Status(),
	}
	for _, item := range d.Items() {
		view.Items = append(view.Items, draftItemView{
			ProductID:       item.ProductID,
			SKU:             item.SKU,
			SelectedPallets: item.SelectedPallets,
			BLNumber:        item.BLNumber,
		})
	}
	return view
}

func (h *Handlers) getDraft(w http.ResponseWriter, r *http.Request) {
	factoryID, err := intVar(r, "factory_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	boatID := mux.Vars(r)["boat_id"]
	d, err := h.drafts.GetDraft(r.Context(), boatID, factoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d == nil {
		writeError(w, r, shared.NewNotFoundError("draft", boatID))
		return
	}
	writeJSON(w, http.StatusOK, toDraftView(d))
}

// draftUpsertPayload is the replace-items request body
type draftUpsertPayload struct {
	Items []draftItemView `json:"items"`
}

func (h *Handlers) upsertDraft(w http.ResponseWriter, r *http.Request) {
	factoryID, err := intVar(r, "factory_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	boatID := mux.Vars(r)["boat_id"]

	var payload draftUpsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", "invalid JSON"))
		return
	}
	items := make([]draft.Item, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = draft.Item{
			ProductID:       item.ProductID,
			SKU:             item.SKU,
			SelectedPallets: item.SelectedPallets,
			BLNumber:        item.BLNumber,
		}
	}

	d, err := h.drafts.UpsertItems(r.Context(), boatID, factoryID, items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftView(d))
}

// statusPayload carries a lifecycle transition request
type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handlers) transitionDraft(w http.ResponseWriter, r *http.Request) {
	id, err := intVar(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", "invalid JSON"))
		return
	}
	d, err := h.drafts.Transition(r.Context(), id, draft.Status(payload.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftView(d))
}

// orderCreatePayload is the warehouse-order creation body
type orderCreatePayload struct {
	BoatID        string          `json:"boat_id"`
	BoatName      string          `json:"boat_name"`
	Containers    int             `json:"containers"`
	TotalWeightKG decimal.Decimal `json:"total_weight_kg"`
	Items         []orderItemView `json:"items"`
}

type orderItemView struct {
	ProductID int             `json:"product_id"`
	SKU       string          `json:"sku"`
	Pallets   int             `json:"pallets"`
	M2        decimal.Decimal `json:"m2"`
	BLNumber  *int            `json:"bl_number,omitempty"`
	Score     *int            `json:"score,omitempty"`
}

// orderView is the JSON shape of one warehouse order
type orderView struct {
	ID           string          `json:"id"`
	BoatID       string          `json:"boat_id"`
	BoatName     string          `json:"boat_name"`
	Status       order.Status    `json:"status"`
	TotalPallets int             `json:"total_pallets"`
	TotalM2      decimal.Decimal `json:"total_m2"`
	Containers   int             `json:"containers"`
	Items        []orderItemView `json:"items"`
}

func toOrderView(o *order.WarehouseOrder) orderView {
	view := orderView{
		ID:           o.ID(),
		BoatID:       o.BoatID(),
		BoatName:     o.BoatName(),
		Status:       o.Status(),
		TotalPallets: o.TotalPallets(),
		TotalM2:      o.TotalM2(),
		Containers:   o.Containers(),
	}
	for _, item := range o.Items() {
		view.Items = append(view.Items, orderItemView{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Pallets:   item.Pallets,
			M2:        item.M2,
			BLNumber:  item.BLNumber,
			Score:     item.Score,
		})
	}
	return view
}

func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", "invalid JSON"))
		return
	}
	items := make([]order.Item, len(payload.Items))
	for i, item := range payload.Items {
		items[i] = order.Item{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Pallets:   item.Pallets,
			M2:        item.M2,
			BLNumber:  item.BLNumber,
			Score:     item.Score,
		}
	}
	o, err := h.ledger.Create(r.Context(), payload.BoatID, payload.BoatName, items, payload.Containers, payload.TotalWeightKG)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(o))
}

func (h *Handlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, shared.NewValidationError("body", "invalid JSON"))
		return
	}
	o, err := h.ledger.UpdateStatus(r.Context(), id, order.Status(payload.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(o))
}

func (h *Handlers) getPendingBySKU(w http.ResponseWriter, r *http.Request) {
	pending, err := h.ledger.GetPendingBySKU(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func intVar(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, shared.NewValidationError(name, "must be an integer")
	}
	return v, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
