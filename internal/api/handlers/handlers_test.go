package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/sales-dashboard/internal/query"
	"github.com/dvloznov/sales-dashboard/internal/store/sqlite"
)

type mockQueryService struct {
	SalesOverTimeFunc      func(ctx context.Context, period string) ([]query.PeriodSales, error)
	SalesByCategoryFunc    func(ctx context.Context) ([]query.CategorySales, error)
	SalesByCountryFunc     func(ctx context.Context) (*query.CountryReport, error)
	SalesTrendsFunc        func(ctx context.Context) ([]query.TrendPoint, error)
	KPIsFunc               func(ctx context.Context) (*query.KPIReport, error)
	TopCustomersFunc       func(ctx context.Context, limit int) (*query.TopCustomersReport, error)
	ProductPerformanceFunc func(ctx context.Context) (*query.ProductReport, error)
	SchemaFunc             func(ctx context.Context) ([]sqlite.ColumnInfo, error)
}

func (m *mockQueryService) SalesOverTime(ctx context.Context, period string) ([]query.PeriodSales, error) {
	return m.SalesOverTimeFunc(ctx, period)
}

func (m *mockQueryService) SalesByCategory(ctx context.Context) ([]query.CategorySales, error) {
	return m.SalesByCategoryFunc(ctx)
}

func (m *mockQueryService) SalesByCountry(ctx context.Context) (*query.CountryReport, error) {
	return m.SalesByCountryFunc(ctx)
}

func (m *mockQueryService) SalesTrends(ctx context.Context) ([]query.TrendPoint, error) {
	return m.SalesTrendsFunc(ctx)
}

func (m *mockQueryService) KPIs(ctx context.Context) (*query.KPIReport, error) {
	return m.KPIsFunc(ctx)
}

func (m *mockQueryService) TopCustomers(ctx context.Context, limit int) (*query.TopCustomersReport, error) {
	return m.TopCustomersFunc(ctx, limit)
}

func (m *mockQueryService) ProductPerformance(ctx context.Context) (*query.ProductReport, error) {
	return m.ProductPerformanceFunc(ctx)
}

func (m *mockQueryService) Schema(ctx context.Context) ([]sqlite.ColumnInfo, error) {
	return m.SchemaFunc(ctx)
}

func get(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestGetSalesOverTime(t *testing.T) {
	var gotPeriod string
	svc := &mockQueryService{
		SalesOverTimeFunc: func(_ context.Context, period string) ([]query.PeriodSales, error) {
			gotPeriod = period
			return []query.PeriodSales{
				{Date: "2003-01", TotalSales: 200, OrderCount: 1},
				{Date: "2003-02", TotalSales: 150, OrderCount: 1},
			}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesOverTime, "/api/sales-over-time?period=quarter")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "quarter", gotPeriod)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "2003-01", body[0]["date"])
	assert.Equal(t, 200.0, body[0]["total_sales"])
	assert.Equal(t, 1.0, body[0]["order_count"])
}

func TestGetSalesOverTime_NoPeriodParam(t *testing.T) {
	// The service owns the month default; the handler passes the raw value.
	var gotPeriod string
	svc := &mockQueryService{
		SalesOverTimeFunc: func(_ context.Context, period string) ([]query.PeriodSales, error) {
			gotPeriod = period
			return []query.PeriodSales{}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesOverTime, "/api/sales-over-time")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", gotPeriod)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetSalesOverTime_InvalidPeriod(t *testing.T) {
	svc := &mockQueryService{
		SalesOverTimeFunc: func(_ context.Context, period string) ([]query.PeriodSales, error) {
			return nil, fmt.Errorf("SalesOverTime: %w %q", query.ErrInvalidPeriod, period)
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesOverTime, "/api/sales-over-time?period=weekly")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Invalid period: valid values are day, month, quarter, year", body["error"])
}

func TestGetSalesOverTime_StoreFailure(t *testing.T) {
	svc := &mockQueryService{
		SalesOverTimeFunc: func(_ context.Context, _ string) ([]query.PeriodSales, error) {
			return nil, errors.New("no such table: sales")
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesOverTime, "/api/sales-over-time")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "no such table: sales", body["error"])
}

func TestGetSalesByCategory(t *testing.T) {
	svc := &mockQueryService{
		SalesByCategoryFunc: func(_ context.Context) ([]query.CategorySales, error) {
			return []query.CategorySales{
				{Category: "SHIPPED", TotalSales: 350, OrderCount: 3, AvgSales: 116.67},
				{Category: "CANCELLED", TotalSales: 50, OrderCount: 1, AvgSales: 50},
			}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesByCategory, "/api/sales-by-category")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "SHIPPED", body[0]["category"])
	assert.Equal(t, 350.0, body[0]["total_sales"])
	assert.Equal(t, 3.0, body[0]["order_count"])
	assert.Equal(t, 116.67, body[0]["avg_sales"])
}

func TestGetSalesByCountry(t *testing.T) {
	svc := &mockQueryService{
		SalesByCountryFunc: func(_ context.Context) (*query.CountryReport, error) {
			return &query.CountryReport{
				Available: true,
				Rows: []query.CountrySales{
					{Country: "USA", TotalSales: 250, OrderCount: 2},
				},
			}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesByCountry, "/api/sales-by-country")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "USA", body[0]["country"])
}

func TestGetSalesByCountry_ColumnUnavailable(t *testing.T) {
	svc := &mockQueryService{
		SalesByCountryFunc: func(_ context.Context) (*query.CountryReport, error) {
			return &query.CountryReport{Available: false, Message: query.CountryUnavailableMessage}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesByCountry, "/api/sales-by-country")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]string
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Country data not available in dataset", body[0]["message"])
}

func TestGetSalesTrends(t *testing.T) {
	svc := &mockQueryService{
		SalesTrendsFunc: func(_ context.Context) ([]query.TrendPoint, error) {
			return []query.TrendPoint{
				{Year: 2003, Month: 1, MonthlySales: 100, GrowthRate: 0},
				{Year: 2003, Month: 2, MonthlySales: 150, GrowthRate: 50},
			}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSalesTrends, "/api/sales-trends")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, 2003.0, body[1]["year"])
	assert.Equal(t, 2.0, body[1]["month"])
	assert.Equal(t, 150.0, body[1]["monthly_sales"])
	assert.Equal(t, 50.0, body[1]["growth_rate"])
}

func TestGetKPIs(t *testing.T) {
	svc := &mockQueryService{
		KPIsFunc: func(_ context.Context) (*query.KPIReport, error) {
			return &query.KPIReport{
				TotalRevenue:  400,
				TotalOrders:   3,
				AvgOrderValue: 400.0 / 3,
				TotalQuantity: 32,
				StatusBreakdown: []query.StatusCount{
					{Status: "SHIPPED", Count: 3},
					{Status: "CANCELLED", Count: 1},
				},
			}, nil
		},
	}
	h := NewSalesHandler(svc, zerolog.Nop())

	rec := get(t, h.GetKPIs, "/api/kpis")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	assert.Equal(t, 400.0, body["total_revenue"])
	assert.Equal(t, 3.0, body["total_orders"])
	assert.InDelta(t, 133.33, body["avg_order_value"], 0.01)
	assert.Equal(t, 32.0, body["total_quantity"])

	breakdown, ok := body["status_breakdown"].([]interface{})
	require.True(t, ok)
	require.Len(t, breakdown, 2)
	first, ok := breakdown[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SHIPPED", first["status"])
	assert.Equal(t, 3.0, first["count"])
}

func TestGetTopCustomers_DefaultLimit(t *testing.T) {
	var gotLimit int
	svc := &mockQueryService{
		TopCustomersFunc: func(_ context.Context, limit int) (*query.TopCustomersReport, error) {
			gotLimit = limit
			return &query.TopCustomersReport{
				ByCustomer: true,
				Customers: []query.CustomerSales{
					{CustomerName: "Alpha Corp", TotalSales: 250, OrderCount: 2, AvgOrderValue: 125},
				},
			}, nil
		},
	}
	h := NewCustomersHandler(svc, zerolog.Nop())

	rec := get(t, h.GetTopCustomers, "/api/top-customers")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, gotLimit)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Alpha Corp", body[0]["customer_name"])
	assert.Equal(t, 250.0, body[0]["total_sales"])
	assert.Equal(t, 125.0, body[0]["avg_order_value"])
}

func TestGetTopCustomers_LimitParam(t *testing.T) {
	var gotLimit int
	svc := &mockQueryService{
		TopCustomersFunc: func(_ context.Context, limit int) (*query.TopCustomersReport, error) {
			gotLimit = limit
			return &query.TopCustomersReport{ByCustomer: true, Customers: []query.CustomerSales{}}, nil
		},
	}
	h := NewCustomersHandler(svc, zerolog.Nop())

	rec := get(t, h.GetTopCustomers, "/api/top-customers?limit=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, gotLimit)
}

func TestGetTopCustomers_BadLimitParam(t *testing.T) {
	called := false
	svc := &mockQueryService{
		TopCustomersFunc: func(_ context.Context, _ int) (*query.TopCustomersReport, error) {
			called = true
			return nil, nil
		},
	}
	h := NewCustomersHandler(svc, zerolog.Nop())

	rec := get(t, h.GetTopCustomers, "/api/top-customers?limit=lots")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Invalid limit parameter", body["error"])
}

func TestGetTopCustomers_NonPositiveLimit(t *testing.T) {
	svc := &mockQueryService{
		TopCustomersFunc: func(_ context.Context, limit int) (*query.TopCustomersReport, error) {
			return nil, fmt.Errorf("TopCustomers: %w %d", query.ErrInvalidLimit, limit)
		},
	}
	h := NewCustomersHandler(svc, zerolog.Nop())

	rec := get(t, h.GetTopCustomers, "/api/top-customers?limit=-1")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Limit must be a positive integer", body["error"])
}

func TestGetTopCustomers_OrderFallback(t *testing.T) {
	svc := &mockQueryService{
		TopCustomersFunc: func(_ context.Context, _ int) (*query.TopCustomersReport, error) {
			return &query.TopCustomersReport{
				ByCustomer: false,
				Orders: []query.OrderSales{
					{OrderID: 10100, TotalSales: 200, LineItems: 2},
				},
			}, nil
		},
	}
	h := NewCustomersHandler(svc, zerolog.Nop())

	rec := get(t, h.GetTopCustomers, "/api/top-customers")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, 10100.0, body[0]["order_id"])
	assert.Equal(t, 2.0, body[0]["line_items"])
}

func TestGetProductPerformance(t *testing.T) {
	svc := &mockQueryService{
		ProductPerformanceFunc: func(_ context.Context) (*query.ProductReport, error) {
			return &query.ProductReport{
				Available: true,
				Rows: []query.ProductSales{
					{Product: "Classic Cars", TotalSales: 250, TotalQuantity: 17, OrderCount: 2},
				},
			}, nil
		},
	}
	h := NewProductsHandler(svc, zerolog.Nop())

	rec := get(t, h.GetProductPerformance, "/api/product-performance")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]interface{}
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Classic Cars", body[0]["product"])
	assert.Equal(t, 17.0, body[0]["total_quantity"])
}

func TestGetProductPerformance_ColumnUnavailable(t *testing.T) {
	svc := &mockQueryService{
		ProductPerformanceFunc: func(_ context.Context) (*query.ProductReport, error) {
			return &query.ProductReport{Available: false, Message: query.ProductUnavailableMessage}, nil
		},
	}
	h := NewProductsHandler(svc, zerolog.Nop())

	rec := get(t, h.GetProductPerformance, "/api/product-performance")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]string
	decodeJSON(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Product line data not available in dataset", body[0]["message"])
}

func TestGetSchema(t *testing.T) {
	svc := &mockQueryService{
		SchemaFunc: func(_ context.Context) ([]sqlite.ColumnInfo, error) {
			return []sqlite.ColumnInfo{
				{Name: "ORDERNUMBER", Type: "INTEGER"},
				{Name: "SALES", Type: "REAL"},
				{Name: "STATUS", Type: "TEXT"},
			}, nil
		},
	}
	h := NewSchemaHandler(svc, zerolog.Nop())

	rec := get(t, h.GetSchema, "/api/schema")

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]string
	decodeJSON(t, rec, &body)
	require.Len(t, body, 3)
	assert.Equal(t, "ORDERNUMBER", body[0]["name"])
	assert.Equal(t, "INTEGER", body[0]["type"])
}
