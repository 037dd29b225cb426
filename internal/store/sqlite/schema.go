package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// ColumnInfo describes one column of the sales table as SQLite reports it.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableColumns reports the columns of the sales table in declaration order.
// It returns an empty slice when the table does not exist yet.
func (s *Store) TableColumns(ctx context.Context) ([]ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", SalesTable))
	if err != nil {
		return nil, fmt.Errorf("TableColumns: querying table info: %w", err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("TableColumns: scanning column: %w", err)
		}
		cols = append(cols, ColumnInfo{Name: name, Type: typ})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TableColumns: iterating columns: %w", err)
	}

	return cols, nil
}

// HasColumn reports whether the sales table has a column with the given name.
func (s *Store) HasColumn(ctx context.Context, name string) (bool, error) {
	cols, err := s.TableColumns(ctx)
	if err != nil {
		return false, fmt.Errorf("HasColumn: %w", err)
	}
	for _, c := range cols {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
