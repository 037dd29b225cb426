package query

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// PeriodSales is one aggregated bucket of SalesOverTime.
type PeriodSales struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int     `json:"order_count"`
}

// TrendPoint is one month of SalesTrends with its growth over the prior month.
type TrendPoint struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	MonthlySales float64 `json:"monthly_sales"`
	GrowthRate   float64 `json:"growth_rate"`
}

// periodSpec describes how one time grouping labels and keys its buckets.
type periodSpec struct {
	label string
	keys  []string
}

var periods = map[string]periodSpec{
	"day":     {label: "ORDERDATE", keys: []string{"ORDERDATE"}},
	"month":   {label: "printf('%04d-%02d', YEAR_ID, MONTH_ID)", keys: []string{"YEAR_ID", "MONTH_ID"}},
	"quarter": {label: "printf('%04d-Q%d', YEAR_ID, QTR_ID)", keys: []string{"YEAR_ID", "QTR_ID"}},
	"year":    {label: "printf('%d', YEAR_ID)", keys: []string{"YEAR_ID"}},
}

// SalesOverTime aggregates sales into ascending time buckets. Supported
// periods are day, month, quarter and year; an empty period means month.
// Rows whose grouping columns are null are excluded.
func (s *Service) SalesOverTime(ctx context.Context, period string) ([]PeriodSales, error) {
	if period == "" {
		period = "month"
	}
	spec, ok := periods[period]
	if !ok {
		return nil, fmt.Errorf("SalesOverTime: %w %q (valid: day, month, quarter, year)", ErrInvalidPeriod, period)
	}

	conds := make([]string, len(spec.keys))
	for i, k := range spec.keys {
		conds[i] = k + " IS NOT NULL"
	}
	groupKeys := strings.Join(spec.keys, ", ")

	q := fmt.Sprintf(`
		SELECT
			%s AS period,
			COALESCE(SUM(SALES), 0) AS total_sales,
			COUNT(DISTINCT ORDERNUMBER) AS order_count
		FROM sales
		WHERE %s
		GROUP BY %s
		ORDER BY %s ASC
	`, spec.label, strings.Join(conds, " AND "), groupKeys, groupKeys)

	rows, err := s.store.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("SalesOverTime: querying %s buckets: %w", period, err)
	}
	defer rows.Close()

	results := []PeriodSales{}
	for rows.Next() {
		var p PeriodSales
		if err := rows.Scan(&p.Date, &p.TotalSales, &p.OrderCount); err != nil {
			return nil, fmt.Errorf("SalesOverTime: scanning row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SalesOverTime: iterating rows: %w", err)
	}

	return results, nil
}

// SalesTrends returns monthly sales in chronological order with the percent
// change from the previous month. The first month and any month following a
// zero month report a growth rate of 0.
func (s *Service) SalesTrends(ctx context.Context) ([]TrendPoint, error) {
	const q = `
		SELECT
			YEAR_ID,
			MONTH_ID,
			COALESCE(SUM(SALES), 0) AS monthly_sales
		FROM sales
		WHERE YEAR_ID IS NOT NULL AND MONTH_ID IS NOT NULL
		GROUP BY YEAR_ID, MONTH_ID
		ORDER BY YEAR_ID ASC, MONTH_ID ASC
	`

	rows, err := s.store.DB().QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("SalesTrends: querying monthly sales: %w", err)
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var year, month, total float64
		if err := rows.Scan(&year, &month, &total); err != nil {
			return nil, fmt.Errorf("SalesTrends: scanning row: %w", err)
		}
		points = append(points, TrendPoint{
			Year:         int(year),
			Month:        int(month),
			MonthlySales: total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SalesTrends: iterating rows: %w", err)
	}

	applyGrowth(points)

	return points, nil
}

// applyGrowth fills GrowthRate as the percent change from the previous point,
// rounded to two decimals. Points following a zero month keep 0.
func applyGrowth(points []TrendPoint) {
	for i := 1; i < len(points); i++ {
		prev := points[i-1].MonthlySales
		if prev == 0 {
			continue
		}
		points[i].GrowthRate = round2((points[i].MonthlySales - prev) / prev * 100)
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
