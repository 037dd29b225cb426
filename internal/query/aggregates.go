package query

import (
	"context"
	"fmt"
)

// CategorySales is one STATUS bucket of SalesByCategory.
type CategorySales struct {
	Category   string  `json:"category"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int     `json:"order_count"`
	AvgSales   float64 `json:"avg_sales"`
}

// StatusCount is one entry of the KPI status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// KPIReport carries the headline dashboard numbers.
type KPIReport struct {
	TotalRevenue    float64       `json:"total_revenue"`
	TotalOrders     int           `json:"total_orders"`
	AvgOrderValue   float64       `json:"avg_order_value"`
	TotalQuantity   float64       `json:"total_quantity"`
	StatusBreakdown []StatusCount `json:"status_breakdown"`
}

// SalesByCategory aggregates sales per order status, highest total first.
func (s *Service) SalesByCategory(ctx context.Context) ([]CategorySales, error) {
	const q = `
		SELECT
			STATUS,
			COALESCE(SUM(SALES), 0) AS total_sales,
			COUNT(DISTINCT ORDERNUMBER) AS order_count,
			COALESCE(AVG(SALES), 0) AS avg_sales
		FROM sales
		WHERE STATUS IS NOT NULL
		GROUP BY STATUS
		ORDER BY total_sales DESC, STATUS ASC
	`

	rows, err := s.store.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("SalesByCategory: querying statuses: %w", err)
	}
	defer rows.Close()

	results := []CategorySales{}
	for rows.Next() {
		var c CategorySales
		if err := rows.Scan(&c.Category, &c.TotalSales, &c.OrderCount, &c.AvgSales); err != nil {
			return nil, fmt.Errorf("SalesByCategory: scanning row: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SalesByCategory: iterating rows: %w", err)
	}

	return results, nil
}

// KPIs computes total revenue, distinct order count, average order value,
// total quantity and the per-status row counts. The average is 0 when the
// table holds no orders.
func (s *Service) KPIs(ctx context.Context) (*KPIReport, error) {
	const totals = `
		SELECT
			COALESCE(SUM(SALES), 0) AS total_revenue,
			COUNT(DISTINCT ORDERNUMBER) AS total_orders,
			COALESCE(SUM(QUANTITYORDERED), 0) AS total_quantity
		FROM sales
	`

	report := &KPIReport{StatusBreakdown: []StatusCount{}}
	row := s.store.DB().QueryRowContext(ctx, totals)
	if err := row.Scan(&report.TotalRevenue, &report.TotalOrders, &report.TotalQuantity); err != nil {
		return nil, fmt.Errorf("KPIs: scanning totals: %w", err)
	}
	if report.TotalOrders > 0 {
		report.AvgOrderValue = report.TotalRevenue / float64(report.TotalOrders)
	}

	const breakdown = `
		SELECT STATUS, COUNT(*) AS n
		FROM sales
		WHERE STATUS IS NOT NULL
		GROUP BY STATUS
		ORDER BY n DESC, STATUS ASC
	`

	rows, err := s.store.DB().QueryContext(ctx, breakdown)
	if err != nil {
		return nil, fmt.Errorf("KPIs: querying status breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("KPIs: scanning status: %w", err)
		}
		report.StatusBreakdown = append(report.StatusBreakdown, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("KPIs: iterating statuses: %w", err)
	}

	return report, nil
}
