package table

import "sort"

// NumericSummary holds descriptive statistics for a numeric column.
type NumericSummary struct {
	Count int     `json:"count"` // non-null cells
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// NullCount returns the number of null cells in the named column, or -1 if
// the column does not exist.
func (t *Table) NullCount(name string) int {
	i := t.ColumnIndex(name)
	if i < 0 {
		return -1
	}
	n := 0
	for _, row := range t.rows {
		if row[i].IsNull {
			n++
		}
	}
	return n
}

// Median returns the median of the named numeric column's non-null values.
// For an even number of values it returns the mean of the two middle ones.
// The second return is false when the column is absent, non-numeric, or has
// no non-null values.
func (t *Table) Median(name string) (float64, bool) {
	i := t.ColumnIndex(name)
	if i < 0 || !t.cols[i].Kind.IsNumeric() {
		return 0, false
	}

	vals := make([]float64, 0, len(t.rows))
	for _, row := range t.rows {
		if !row[i].IsNull {
			vals = append(vals, row[i].Num)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}

	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], true
	}
	return (vals[mid-1] + vals[mid]) / 2, true
}

// Mode returns the most frequent non-null value of the named text column.
// When several values share the highest frequency, the first-encountered one
// wins. The second return is false when the column is absent, numeric, or
// has no non-null values.
func (t *Table) Mode(name string) (string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 || t.cols[i].Kind.IsNumeric() {
		return "", false
	}

	counts := make(map[string]int)
	for _, row := range t.rows {
		if !row[i].IsNull {
			counts[row[i].Str]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	for _, row := range t.rows {
		if !row[i].IsNull && counts[row[i].Str] == max {
			return row[i].Str, true
		}
	}
	return "", false
}

// Summarize computes descriptive statistics for the named numeric column.
// The second return is false when the column is absent or non-numeric.
func (t *Table) Summarize(name string) (NumericSummary, bool) {
	i := t.ColumnIndex(name)
	if i < 0 || !t.cols[i].Kind.IsNumeric() {
		return NumericSummary{}, false
	}

	var s NumericSummary
	sum := 0.0
	for _, row := range t.rows {
		v := row[i]
		if v.IsNull {
			s.Nulls++
			continue
		}
		if s.Count == 0 || v.Num < s.Min {
			s.Min = v.Num
		}
		if s.Count == 0 || v.Num > s.Max {
			s.Max = v.Num
		}
		sum += v.Num
		s.Count++
	}
	if s.Count > 0 {
		s.Mean = sum / float64(s.Count)
	}
	return s, true
}
