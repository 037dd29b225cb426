package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/sales-dashboard/internal/api/middleware"
	"github.com/dvloznov/sales-dashboard/internal/query"
	"github.com/dvloznov/sales-dashboard/internal/store/sqlite"
)

// defaultTopCustomers is the number of records returned by the top-customers
// endpoint when no limit parameter is given.
const defaultTopCustomers = 10

// QueryService is the read side of the sales store consumed by the handlers.
type QueryService interface {
	SalesOverTime(ctx context.Context, period string) ([]query.PeriodSales, error)
	SalesByCategory(ctx context.Context) ([]query.CategorySales, error)
	SalesByCountry(ctx context.Context) (*query.CountryReport, error)
	SalesTrends(ctx context.Context) ([]query.TrendPoint, error)
	KPIs(ctx context.Context) (*query.KPIReport, error)
	TopCustomers(ctx context.Context, limit int) (*query.TopCustomersReport, error)
	ProductPerformance(ctx context.Context) (*query.ProductReport, error)
	Schema(ctx context.Context) ([]sqlite.ColumnInfo, error)
}

// unavailable is the single-record payload returned when an optional
// dataset column is missing. Dashboards branch on the message field, so
// the shape must stay a one-element array, not an error object.
func unavailable(message string) []map[string]string {
	return []map[string]string{{"message": message}}
}

// SalesHandler handles sales aggregation endpoints.
type SalesHandler struct {
	svc QueryService
	log zerolog.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(svc QueryService, log zerolog.Logger) *SalesHandler {
	return &SalesHandler{
		svc: svc,
		log: log,
	}
}

// GetSalesOverTime handles GET /api/sales-over-time
func (h *SalesHandler) GetSalesOverTime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := r.URL.Query().Get("period")

	points, err := h.svc.SalesOverTime(ctx, period)
	if err != nil {
		if errors.Is(err, query.ErrInvalidPeriod) {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid period: valid values are day, month, quarter, year")
			return
		}
		h.log.Error().Err(err).Str("period", period).Msg("Failed to query sales over time")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, points)
}

// GetSalesByCategory handles GET /api/sales-by-category
func (h *SalesHandler) GetSalesByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.svc.SalesByCategory(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query sales by category")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, categories)
}

// GetSalesByCountry handles GET /api/sales-by-country
func (h *SalesHandler) GetSalesByCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.svc.SalesByCountry(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query sales by country")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !report.Available {
		middleware.WriteJSON(w, http.StatusOK, unavailable(report.Message))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report.Rows)
}

// GetSalesTrends handles GET /api/sales-trends
func (h *SalesHandler) GetSalesTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trends, err := h.svc.SalesTrends(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query sales trends")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, trends)
}

// GetKPIs handles GET /api/kpis
func (h *SalesHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.svc.KPIs(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute KPIs")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report)
}

// CustomersHandler handles customer ranking endpoints.
type CustomersHandler struct {
	svc QueryService
	log zerolog.Logger
}

// NewCustomersHandler creates a new customers handler.
func NewCustomersHandler(svc QueryService, log zerolog.Logger) *CustomersHandler {
	return &CustomersHandler{
		svc: svc,
		log: log,
	}
}

// GetTopCustomers handles GET /api/top-customers
func (h *CustomersHandler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultTopCustomers
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	report, err := h.svc.TopCustomers(ctx, limit)
	if err != nil {
		if errors.Is(err, query.ErrInvalidLimit) {
			middleware.WriteError(w, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		h.log.Error().Err(err).Int("limit", limit).Msg("Failed to query top customers")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Datasets without customer names rank whole orders instead.
	if report.ByCustomer {
		middleware.WriteJSON(w, http.StatusOK, report.Customers)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, report.Orders)
}

// ProductsHandler handles product-line endpoints.
type ProductsHandler struct {
	svc QueryService
	log zerolog.Logger
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(svc QueryService, log zerolog.Logger) *ProductsHandler {
	return &ProductsHandler{
		svc: svc,
		log: log,
	}
}

// GetProductPerformance handles GET /api/product-performance
func (h *ProductsHandler) GetProductPerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.svc.ProductPerformance(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query product performance")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !report.Available {
		middleware.WriteJSON(w, http.StatusOK, unavailable(report.Message))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, report.Rows)
}

// SchemaHandler handles schema introspection endpoints.
type SchemaHandler struct {
	svc QueryService
	log zerolog.Logger
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(svc QueryService, log zerolog.Logger) *SchemaHandler {
	return &SchemaHandler{
		svc: svc,
		log: log,
	}
}

// GetSchema handles GET /api/schema
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	columns, err := h.svc.Schema(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read table schema")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, columns)
}
