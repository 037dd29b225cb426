package sqlite

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/sales-dashboard/internal/table"
)

// salesIndexes are created after loading when their column is present.
var salesIndexes = []struct {
	name   string
	column string
}{
	{"idx_sales_orderdate", "ORDERDATE"},
	{"idx_sales_status", "STATUS"},
	{"idx_sales_year", "YEAR_ID"},
}

// ReplaceSales replaces the sales table with the contents of t. The drop,
// create, inserts and indexes all run in one transaction, so readers never
// observe a partially loaded dataset.
func (s *Store) ReplaceSales(ctx context.Context, t *table.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceSales: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", SalesTable)); err != nil {
		return fmt.Errorf("ReplaceSales: dropping old table: %w", err)
	}

	cols := t.Columns()
	if len(cols) == 0 {
		return fmt.Errorf("ReplaceSales: table has no columns")
	}

	defs := make([]string, len(cols))
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c.Name) + " " + c.Kind.String()
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", SalesTable, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("ReplaceSales: creating table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		SalesTable, strings.Join(names, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("ReplaceSales: preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for r := 0; r < t.NumRows(); r++ {
		for c := range cols {
			args[c] = driverValue(t.Value(r, c), cols[c].Kind)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("ReplaceSales: inserting row %d: %w", r, err)
		}
	}

	for _, idx := range salesIndexes {
		if !t.HasColumn(idx.column) {
			continue
		}
		ddl := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			idx.name, SalesTable, quoteIdent(idx.column))
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ReplaceSales: creating index %s: %w", idx.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceSales: committing: %w", err)
	}

	return nil
}

// driverValue converts a table cell into the value bound to an insert
// placeholder. Whole numbers in integer columns are bound as int64 so
// identifiers survive the round trip without a decimal point.
func driverValue(v table.Value, k table.Kind) any {
	if v.IsNull {
		return nil
	}
	switch k {
	case table.KindInteger:
		if v.Num == math.Trunc(v.Num) {
			return int64(v.Num)
		}
		return v.Num
	case table.KindReal:
		return v.Num
	default:
		return v.Str
	}
}

// quoteIdent quotes a column name for use in DDL. CSV headers are not under
// our control, so every identifier is quoted.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
