package pipeline

import (
	"strings"
	"time"

	"github.com/dvloznov/sales-dashboard/internal/table"
)

// projectColumns keeps the allow-listed columns in canonical order and
// converts cells to their column kinds. Optional columns are requested only
// when the source provides them, so an absent COUNTRY never surfaces as an
// all-null column downstream. Returns the projected table and the required
// column names the source was missing.
func projectColumns(t *table.Table) (*table.Table, []string) {
	target := make([]table.Column, 0, len(RequiredColumns)+len(OptionalColumns))
	target = append(target, RequiredColumns...)
	for _, c := range OptionalColumns {
		if t.HasColumn(c.Name) {
			target = append(target, c)
		}
	}
	return t.Select(target)
}

// imputeMissing fills null cells column by column: numeric columns take the
// column median, text columns the most frequent value. A column with no
// non-null values is left as it is. Returns the number of cells filled.
func imputeMissing(t *table.Table) int {
	filled := 0
	for i, col := range t.Columns() {
		if col.Kind.IsNumeric() {
			median, ok := t.Median(col.Name)
			if !ok {
				continue
			}
			filled += fillNulls(t, i, table.Number(median))
		} else {
			mode, ok := t.Mode(col.Name)
			if !ok {
				continue
			}
			filled += fillNulls(t, i, table.String(mode))
		}
	}
	return filled
}

// fillNulls replaces every null cell of column col with v.
func fillNulls(t *table.Table, col int, v table.Value) int {
	n := 0
	for r := 0; r < t.NumRows(); r++ {
		if t.Value(r, col).IsNull {
			t.SetValue(r, col, v)
			n++
		}
	}
	return n
}

// normalizeStatus trims and upper-cases every STATUS cell for case-insensitive
// grouping. Returns the number of cells changed.
func normalizeStatus(t *table.Table) int {
	col := t.ColumnIndex(ColStatus)
	if col < 0 {
		return 0
	}

	changed := 0
	for r := 0; r < t.NumRows(); r++ {
		v := t.Value(r, col)
		if v.IsNull {
			continue
		}
		normalized := strings.ToUpper(strings.TrimSpace(v.Str))
		if normalized != v.Str {
			t.SetValue(r, col, table.String(normalized))
			changed++
		}
	}
	return changed
}

// parseOrderDate parses a raw ORDERDATE cell against the known layouts.
func parseOrderDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// quarterOf maps a month in 1..12 to its calendar quarter.
func quarterOf(month int) int {
	return (month-1)/3 + 1
}

// deriveDates rewrites parseable ORDERDATE cells as YYYY-MM-DD and fills
// null YEAR_ID, MONTH_ID and QTR_ID cells from the parsed date. Existing
// calendar values are never overwritten. A cell no layout matches becomes
// null and its row keeps whatever calendar fields it already had. Returns
// the normalized and unparseable counts.
func deriveDates(t *table.Table) (normalized, unparseable int) {
	dateCol := t.ColumnIndex(ColOrderDate)
	if dateCol < 0 {
		return 0, 0
	}
	yearCol := t.ColumnIndex(ColYearID)
	monthCol := t.ColumnIndex(ColMonthID)
	qtrCol := t.ColumnIndex(ColQuarterID)

	for r := 0; r < t.NumRows(); r++ {
		v := t.Value(r, dateCol)
		if v.IsNull {
			continue
		}

		parsed, ok := parseOrderDate(v.Str)
		if !ok {
			t.SetValue(r, dateCol, table.Null())
			unparseable++
			continue
		}

		t.SetValue(r, dateCol, table.String(parsed.Format(NormalizedDateLayout)))
		normalized++

		month := int(parsed.Month())
		fillIfNull(t, r, yearCol, float64(parsed.Year()))
		fillIfNull(t, r, monthCol, float64(month))
		fillIfNull(t, r, qtrCol, float64(quarterOf(month)))
	}
	return normalized, unparseable
}

// fillIfNull sets a numeric cell when the column exists and the cell is null.
func fillIfNull(t *table.Table, row, col int, f float64) {
	if col < 0 {
		return
	}
	if t.Value(row, col).IsNull {
		t.SetValue(row, col, table.Number(f))
	}
}
