package query

import (
	"context"
	"fmt"
)

// CustomerSales is one customer bucket of TopCustomers.
type CustomerSales struct {
	CustomerName  string  `json:"customer_name"`
	TotalSales    float64 `json:"total_sales"`
	OrderCount    int     `json:"order_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// OrderSales is one order bucket of the TopCustomers fallback used when the
// dataset carries no customer names.
type OrderSales struct {
	OrderID    int64   `json:"order_id"`
	TotalSales float64 `json:"total_sales"`
	LineItems  int     `json:"line_items"`
}

// TopCustomersReport ranks customers by total sales, or orders when
// CUSTOMERNAME is absent from the dataset. Exactly one of Customers and
// Orders is populated; ByCustomer says which.
type TopCustomersReport struct {
	ByCustomer bool
	Customers  []CustomerSales
	Orders     []OrderSales
}

// TopCustomers returns the limit highest-grossing customers, descending by
// total sales. Datasets without a CUSTOMERNAME column fall back to ranking
// individual orders instead.
func (s *Service) TopCustomers(ctx context.Context, limit int) (*TopCustomersReport, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("TopCustomers: %w %d (must be positive)", ErrInvalidLimit, limit)
	}

	ok, err := s.hasColumn(ctx, "CUSTOMERNAME")
	if err != nil {
		return nil, fmt.Errorf("TopCustomers: %w", err)
	}
	if !ok {
		s.log.Debug().Msg("CUSTOMERNAME column absent, ranking orders")
		return s.topOrders(ctx, limit)
	}

	const q = `
		SELECT
			CUSTOMERNAME,
			COALESCE(SUM(SALES), 0) AS total_sales,
			COUNT(DISTINCT ORDERNUMBER) AS order_count
		FROM sales
		WHERE CUSTOMERNAME IS NOT NULL
		GROUP BY CUSTOMERNAME
		ORDER BY total_sales DESC, CUSTOMERNAME ASC
		LIMIT ?
	`

	rows, err := s.store.DB().QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("TopCustomers: querying customers: %w", err)
	}
	defer rows.Close()

	report := &TopCustomersReport{ByCustomer: true, Customers: []CustomerSales{}}
	for rows.Next() {
		var c CustomerSales
		if err := rows.Scan(&c.CustomerName, &c.TotalSales, &c.OrderCount); err != nil {
			return nil, fmt.Errorf("TopCustomers: scanning row: %w", err)
		}
		if c.OrderCount > 0 {
			c.AvgOrderValue = c.TotalSales / float64(c.OrderCount)
		}
		report.Customers = append(report.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TopCustomers: iterating rows: %w", err)
	}

	return report, nil
}

// topOrders ranks individual orders by their summed line totals.
func (s *Service) topOrders(ctx context.Context, limit int) (*TopCustomersReport, error) {
	const q = `
		SELECT
			ORDERNUMBER,
			COALESCE(SUM(SALES), 0) AS total_sales,
			COUNT(*) AS line_items
		FROM sales
		WHERE ORDERNUMBER IS NOT NULL
		GROUP BY ORDERNUMBER
		ORDER BY total_sales DESC, ORDERNUMBER ASC
		LIMIT ?
	`

	rows, err := s.store.DB().QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("topOrders: querying orders: %w", err)
	}
	defer rows.Close()

	report := &TopCustomersReport{Orders: []OrderSales{}}
	for rows.Next() {
		var (
			o     OrderSales
			order float64
		)
		if err := rows.Scan(&order, &o.TotalSales, &o.LineItems); err != nil {
			return nil, fmt.Errorf("topOrders: scanning row: %w", err)
		}
		o.OrderID = int64(order)
		report.Orders = append(report.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("topOrders: iterating rows: %w", err)
	}

	return report, nil
}
