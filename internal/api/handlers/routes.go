package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dvloznov/sales-dashboard/internal/api/middleware"
)

// Routes builds the dashboard API route tree over the given query service.
// Callers mount the returned router under /api.
func Routes(svc QueryService, log zerolog.Logger) chi.Router {
	sales := NewSalesHandler(svc, log)
	customers := NewCustomersHandler(svc, log)
	products := NewProductsHandler(svc, log)
	schema := NewSchemaHandler(svc, log)

	r := chi.NewRouter()
	r.Get("/health", health)
	r.Get("/sales-over-time", sales.GetSalesOverTime)
	r.Get("/sales-by-category", sales.GetSalesByCategory)
	r.Get("/sales-by-country", sales.GetSalesByCountry)
	r.Get("/sales-trends", sales.GetSalesTrends)
	r.Get("/kpis", sales.GetKPIs)
	r.Get("/top-customers", customers.GetTopCustomers)
	r.Get("/product-performance", products.GetProductPerformance)
	r.Get("/schema", schema.GetSchema)

	return r
}

// health handles GET /api/health
func health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}
