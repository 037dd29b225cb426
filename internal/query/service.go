// Package query implements the read-only aggregation operations served by
// the dashboard API. Every method reads the sales table through the shared
// store handle and returns typed rows ready for JSON encoding.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/sales-dashboard/internal/store/sqlite"
)

var (
	// ErrInvalidPeriod is returned when a time grouping is not one of
	// day, month, quarter or year.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidLimit is returned when a result limit is zero or negative.
	ErrInvalidLimit = errors.New("invalid limit")
)

// Service answers aggregation queries over the processed sales table.
type Service struct {
	store *sqlite.Store
	log   zerolog.Logger
}

// NewService creates a query service backed by the given store.
func NewService(store *sqlite.Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "query").Logger(),
	}
}

// Schema reports the columns of the sales table in declaration order.
func (s *Service) Schema(ctx context.Context) ([]sqlite.ColumnInfo, error) {
	cols, err := s.store.TableColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("Schema: %w", err)
	}
	if cols == nil {
		cols = []sqlite.ColumnInfo{}
	}
	return cols, nil
}

// hasColumn reports whether the sales table carries an optional column.
func (s *Service) hasColumn(ctx context.Context, name string) (bool, error) {
	ok, err := s.store.HasColumn(ctx, name)
	if err != nil {
		return false, fmt.Errorf("checking column %s: %w", name, err)
	}
	return ok, nil
}
