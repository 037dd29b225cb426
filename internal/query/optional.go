package query

import (
	"context"
	"fmt"
)

// Messages reported when an optional column is missing from the dataset.
const (
	CountryUnavailableMessage = "Country data not available in dataset"
	ProductUnavailableMessage = "Product line data not available in dataset"
)

// CountrySales is one country bucket of SalesByCountry.
type CountrySales struct {
	Country    string  `json:"country"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int     `json:"order_count"`
}

// CountryReport carries the top-country ranking, or the message explaining
// its absence when the dataset has no COUNTRY column.
type CountryReport struct {
	Available bool
	Message   string
	Rows      []CountrySales
}

// ProductSales is one product-line bucket of ProductPerformance.
type ProductSales struct {
	Product       string  `json:"product"`
	TotalSales    float64 `json:"total_sales"`
	TotalQuantity float64 `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
}

// ProductReport carries the product-line ranking, or the message explaining
// its absence when the dataset has no PRODUCTLINE column.
type ProductReport struct {
	Available bool
	Message   string
	Rows      []ProductSales
}

// SalesByCountry aggregates the ten highest-grossing countries. Datasets
// without a COUNTRY column get an unavailable report, not an error.
func (s *Service) SalesByCountry(ctx context.Context) (*CountryReport, error) {
	ok, err := s.hasColumn(ctx, "COUNTRY")
	if err != nil {
		return nil, fmt.Errorf("SalesByCountry: %w", err)
	}
	if !ok {
		s.log.Debug().Msg("COUNTRY column absent, returning placeholder")
		return &CountryReport{Message: CountryUnavailableMessage}, nil
	}

	const q = `
		SELECT
			COUNTRY,
			COALESCE(SUM(SALES), 0) AS total_sales,
			COUNT(DISTINCT ORDERNUMBER) AS order_count
		FROM sales
		WHERE COUNTRY IS NOT NULL
		GROUP BY COUNTRY
		ORDER BY total_sales DESC, COUNTRY ASC
		LIMIT 10
	`

	rows, err := s.store.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("SalesByCountry: querying countries: %w", err)
	}
	defer rows.Close()

	report := &CountryReport{Available: true, Rows: []CountrySales{}}
	for rows.Next() {
		var c CountrySales
		if err := rows.Scan(&c.Country, &c.TotalSales, &c.OrderCount); err != nil {
			return nil, fmt.Errorf("SalesByCountry: scanning row: %w", err)
		}
		report.Rows = append(report.Rows, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SalesByCountry: iterating rows: %w", err)
	}

	return report, nil
}

// ProductPerformance aggregates sales and quantity per product line,
// highest total first. Datasets without a PRODUCTLINE column get an
// unavailable report, not an error.
func (s *Service) ProductPerformance(ctx context.Context) (*ProductReport, error) {
	ok, err := s.hasColumn(ctx, "PRODUCTLINE")
	if err != nil {
		return nil, fmt.Errorf("ProductPerformance: %w", err)
	}
	if !ok {
		s.log.Debug().Msg("PRODUCTLINE column absent, returning placeholder")
		return &ProductReport{Message: ProductUnavailableMessage}, nil
	}

	const q = `
		SELECT
			PRODUCTLINE,
			COALESCE(SUM(SALES), 0) AS total_sales,
			COALESCE(SUM(QUANTITYORDERED), 0) AS total_quantity,
			COUNT(DISTINCT ORDERNUMBER) AS order_count
		FROM sales
		WHERE PRODUCTLINE IS NOT NULL
		GROUP BY PRODUCTLINE
		ORDER BY total_sales DESC, PRODUCTLINE ASC
	`

	rows, err := s.store.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ProductPerformance: querying product lines: %w", err)
	}
	defer rows.Close()

	report := &ProductReport{Available: true, Rows: []ProductSales{}}
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.Product, &p.TotalSales, &p.TotalQuantity, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("ProductPerformance: scanning row: %w", err)
		}
		report.Rows = append(report.Rows, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProductPerformance: iterating rows: %w", err)
	}

	return report, nil
}
