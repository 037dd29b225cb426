package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/sales-dashboard/internal/table"
)

func TestSalesByCategory(t *testing.T) {
	svc := fullService(t)

	results, err := svc.SalesByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "SHIPPED", results[0].Category)
	assert.InDelta(t, 350, results[0].TotalSales, 0.0001)
	assert.Equal(t, 2, results[0].OrderCount)
	assert.InDelta(t, 350.0/3, results[0].AvgSales, 0.0001)

	assert.Equal(t, "CANCELLED", results[1].Category)
	assert.InDelta(t, 50, results[1].TotalSales, 0.0001)
	assert.Equal(t, 1, results[1].OrderCount)
	assert.InDelta(t, 50, results[1].AvgSales, 0.0001)
}

func TestSalesByCategory_TotalsMatchRevenue(t *testing.T) {
	svc := fullService(t)
	ctx := context.Background()

	categories, err := svc.SalesByCategory(ctx)
	require.NoError(t, err)

	kpis, err := svc.KPIs(ctx)
	require.NoError(t, err)

	var sum float64
	for _, c := range categories {
		sum += c.TotalSales
	}
	assert.InDelta(t, kpis.TotalRevenue, sum, 0.0001)
}

func TestKPIs(t *testing.T) {
	svc := fullService(t)

	kpis, err := svc.KPIs(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 400, kpis.TotalRevenue, 0.0001)
	assert.Equal(t, 3, kpis.TotalOrders)
	assert.InDelta(t, 400.0/3, kpis.AvgOrderValue, 0.0001)
	assert.InDelta(t, 32, kpis.TotalQuantity, 0.0001)

	require.Len(t, kpis.StatusBreakdown, 2)
	assert.Equal(t, StatusCount{Status: "SHIPPED", Count: 3}, kpis.StatusBreakdown[0])
	assert.Equal(t, StatusCount{Status: "CANCELLED", Count: 1}, kpis.StatusBreakdown[1])
}

func TestKPIs_EmptyTable(t *testing.T) {
	svc := newTestService(t, table.New(fullColumns))

	kpis, err := svc.KPIs(context.Background())
	require.NoError(t, err)

	assert.Zero(t, kpis.TotalRevenue)
	assert.Zero(t, kpis.TotalOrders)
	assert.Zero(t, kpis.AvgOrderValue)
	assert.Zero(t, kpis.TotalQuantity)
	assert.Empty(t, kpis.StatusBreakdown)
}
