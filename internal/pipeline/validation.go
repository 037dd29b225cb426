package pipeline

import (
	"github.com/dvloznov/sales-dashboard/internal/table"
)

// validate fills the report with the final shape of the processed table:
// row count, per-column types and null counts, the SALES summary and the
// count of negative SALES rows. Negative values are flagged for operators
// but never removed; refunds and chargebacks are legitimate rows.
func validate(t *table.Table, r *Report) {
	r.RowCount = t.NumRows()
	r.Columns = make([]ColumnReport, 0, t.NumCols())
	for _, col := range t.Columns() {
		r.Columns = append(r.Columns, ColumnReport{
			Name:      col.Name,
			Type:      col.Kind.String(),
			NullCount: t.NullCount(col.Name),
		})
	}

	if summary, ok := t.Summarize(ColSales); ok {
		r.SalesSummary = &summary
	}
	r.NegativeSales = countNegative(t, ColSales)
}

// countNegative counts non-null cells below zero in the named numeric column.
func countNegative(t *table.Table, name string) int {
	col := t.ColumnIndex(name)
	if col < 0 || !t.Columns()[col].Kind.IsNumeric() {
		return 0
	}

	n := 0
	for r := 0; r < t.NumRows(); r++ {
		v := t.Value(r, col)
		if !v.IsNull && v.Num < 0 {
			n++
		}
	}
	return n
}
