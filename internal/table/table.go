package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind describes how the cells of a column are typed.
type Kind int

const (
	// KindText holds free-form text cells.
	KindText Kind = iota
	// KindInteger holds whole-number cells. Cells are stored as float64
	// so that imputed medians can be fractional; the distinction matters
	// when persisting and exporting.
	KindInteger
	// KindReal holds floating-point cells.
	KindReal
)

// IsNumeric reports whether the kind is integer or real.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindReal
}

// String names the kind the way the stored schema declares it.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Value is one nullable cell. Use the String, Number and Null constructors
// rather than building the struct directly.
type Value struct {
	IsNull bool
	Num    float64
	Str    string
}

// String creates a text value.
func String(s string) Value {
	return Value{Str: s}
}

// Number creates a numeric value.
func Number(f float64) Value {
	return Value{Num: f}
}

// Null creates a null value.
func Null() Value {
	return Value{IsNull: true}
}

// Column is a named, kinded column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered collection of columns with row-major cell storage.
// Row order is stable: loads, projections and deduplication all preserve
// first-occurrence order.
type Table struct {
	cols   []Column
	byName map[string]int
	rows   [][]Value
}

// New creates an empty table with the given columns.
func New(cols []Column) *Table {
	t := &Table{
		cols:   make([]Column, len(cols)),
		byName: make(map[string]int, len(cols)),
	}
	copy(t.cols, cols)
	for i, c := range t.cols {
		// First occurrence wins for duplicate header names.
		if _, ok := t.byName[c.Name]; !ok {
			t.byName[c.Name] = i
		}
	}
	return t
}

// Columns returns the column definitions in table order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.byName[name]; ok {
		return i
	}
	return -1
}

// AppendRow adds a row to the table. The row must have one cell per column.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("AppendRow: row has %d cells, table has %d columns", len(row), len(t.cols))
	}
	cells := make([]Value, len(row))
	copy(cells, row)
	t.rows = append(t.rows, cells)
	return nil
}

// Value returns the cell at the given row and column index.
func (t *Table) Value(row, col int) Value {
	return t.rows[row][col]
}

// SetValue replaces the cell at the given row and column index.
func (t *Table) SetValue(row, col int, v Value) {
	t.rows[row][col] = v
}

// Select builds a new table containing the requested columns, in the
// requested order, converting cell representations to the requested kinds.
// Requested columns absent from the source are skipped and returned in the
// missing list; source columns not requested are dropped.
//
// Converting a text cell to a numeric kind parses it as a decimal number;
// blank or unparseable text becomes null.
func (t *Table) Select(cols []Column) (*Table, []string) {
	kept := make([]Column, 0, len(cols))
	srcIdx := make([]int, 0, len(cols))
	var missing []string

	for _, c := range cols {
		i := t.ColumnIndex(c.Name)
		if i < 0 {
			missing = append(missing, c.Name)
			continue
		}
		kept = append(kept, c)
		srcIdx = append(srcIdx, i)
	}

	out := New(kept)
	out.rows = make([][]Value, 0, len(t.rows))
	for _, row := range t.rows {
		cells := make([]Value, len(kept))
		for j, i := range srcIdx {
			cells[j] = convert(row[i], kept[j].Kind)
		}
		out.rows = append(out.rows, cells)
	}
	return out, missing
}

// convert coerces a cell to the target kind. Non-null text cells always
// carry a non-empty Str (blank CSV fields load as null), so an empty Str
// marks a cell that is already numeric.
func convert(v Value, kind Kind) Value {
	if v.IsNull || !kind.IsNumeric() || v.Str == "" {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil {
		return Null()
	}
	return Number(f)
}

// Dedup removes rows that are identical across every column, keeping the
// first occurrence of each. It returns the number of rows removed.
func (t *Table) Dedup() int {
	seen := make(map[string]struct{}, len(t.rows))
	kept := t.rows[:0]
	removed := 0
	for _, row := range t.rows {
		k := t.rowKey(row)
		if _, dup := seen[k]; dup {
			removed++
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	t.rows = kept
	return removed
}

// rowKey builds a collision-free signature for a row.
func (t *Table) rowKey(row []Value) string {
	var b strings.Builder
	for i, v := range row {
		switch {
		case v.IsNull:
			b.WriteString("n;")
		case t.cols[i].Kind.IsNumeric():
			b.WriteString("f")
			b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
			b.WriteString(";")
		default:
			b.WriteString("s")
			b.WriteString(strconv.Quote(v.Str))
			b.WriteString(";")
		}
	}
	return b.String()
}
