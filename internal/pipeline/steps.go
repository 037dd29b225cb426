package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/dvloznov/sales-dashboard/internal/store/sqlite"
	"github.com/dvloznov/sales-dashboard/internal/table"
)

// Step represents a single step in the preprocessing pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// Step 1: LoadStep reads the raw CSV into an in-memory table.
type LoadStep struct{}

func (s *LoadStep) Name() string { return "load" }

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	t, err := table.ReadFile(state.SourcePath)
	if err != nil {
		return err
	}
	state.Table = t
	state.Report.RowsLoaded = t.NumRows()
	state.Report.ColumnsLoaded = t.NumCols()

	logger.FromContext(ctx).Info().
		Str("path", state.SourcePath).
		Int("rows", t.NumRows()).
		Int("columns", t.NumCols()).
		Msg("loaded source file")
	return nil
}

// Step 2: ProjectStep keeps the allow-listed columns in canonical order and
// assigns column kinds.
type ProjectStep struct{}

func (s *ProjectStep) Name() string { return "project" }

func (s *ProjectStep) Execute(ctx context.Context, state *State) error {
	projected, missing := projectColumns(state.Table)
	state.Table = projected
	state.Report.MissingColumns = missing

	if len(missing) > 0 {
		logger.FromContext(ctx).Warn().
			Strs("columns", missing).
			Msg("expected columns missing from source")
	}
	return nil
}

// Step 3: ImputeStep fills null cells with the column median or mode.
type ImputeStep struct{}

func (s *ImputeStep) Name() string { return "impute" }

func (s *ImputeStep) Execute(ctx context.Context, state *State) error {
	filled := imputeMissing(state.Table)
	state.Report.ImputedCells = filled

	logger.FromContext(ctx).Info().
		Int("cells", filled).
		Msg("imputed missing values")
	return nil
}

// Step 4: DedupeStep removes exact duplicate rows, keeping first occurrences.
type DedupeStep struct{}

func (s *DedupeStep) Name() string { return "dedupe" }

func (s *DedupeStep) Execute(ctx context.Context, state *State) error {
	removed := state.Table.Dedup()
	state.Report.DuplicatesRemoved = removed

	logger.FromContext(ctx).Info().
		Int("rows", removed).
		Msg("removed duplicate rows")
	return nil
}

// Step 5: NormalizeStatusStep trims and upper-cases the STATUS column.
type NormalizeStatusStep struct{}

func (s *NormalizeStatusStep) Name() string { return "normalize-status" }

func (s *NormalizeStatusStep) Execute(ctx context.Context, state *State) error {
	changed := normalizeStatus(state.Table)
	state.Report.NormalizedStatus = changed

	logger.FromContext(ctx).Info().
		Int("cells", changed).
		Msg("normalized status values")
	return nil
}

// Step 6: DeriveDatesStep normalizes ORDERDATE and fills missing calendar
// fields from it.
type DeriveDatesStep struct{}

func (s *DeriveDatesStep) Name() string { return "derive-dates" }

func (s *DeriveDatesStep) Execute(ctx context.Context, state *State) error {
	normalized, unparseable := deriveDates(state.Table)
	state.Report.NormalizedDates = normalized
	state.Report.UnparseableDates = unparseable

	log := logger.FromContext(ctx)
	log.Info().
		Int("normalized", normalized).
		Int("unparseable", unparseable).
		Msg("derived date features")
	if unparseable > 0 {
		log.Warn().
			Int("rows", unparseable).
			Msg("rows kept with unparseable order dates")
	}
	return nil
}

// Step 7: ValidateStep computes the data quality report for the final table.
type ValidateStep struct{}

func (s *ValidateStep) Name() string { return "validate" }

func (s *ValidateStep) Execute(ctx context.Context, state *State) error {
	validate(state.Table, state.Report)

	log := logger.FromContext(ctx)
	log.Info().
		Int("rows", state.Report.RowCount).
		Int("columns", len(state.Report.Columns)).
		Msg("validated processed table")
	if state.Report.NegativeSales > 0 {
		log.Warn().
			Int("rows", state.Report.NegativeSales).
			Msg("rows with negative sales values")
	}
	return nil
}

// Step 8: PersistStep replaces the sales table in one transaction and writes
// the processed CSV export.
type PersistStep struct {
	Store      *sqlite.Store
	ExportPath string
}

func (s *PersistStep) Name() string { return "persist" }

func (s *PersistStep) Execute(ctx context.Context, state *State) error {
	if err := s.Store.ReplaceSales(ctx, state.Table); err != nil {
		return err
	}
	if err := state.Table.WriteFile(s.ExportPath); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	logger.FromContext(ctx).Info().
		Str("store", s.Store.Path()).
		Str("export", s.ExportPath).
		Int("rows", state.Table.NumRows()).
		Msg("persisted processed table")
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially. The first failure aborts the run.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline step %d (%s) aborted: %w", i+1, step.Name(), err)
		}
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d (%s) failed: %w", i+1, step.Name(), err)
		}
	}
	return nil
}

// NewPreprocessPipeline creates the standard 8-step pipeline for cleaning a
// raw sales export and loading it into the store.
func NewPreprocessPipeline(store *sqlite.Store, exportPath string) *Pipeline {
	return NewPipeline(
		&LoadStep{},
		&ProjectStep{},
		&ImputeStep{},
		&DedupeStep{},
		&NormalizeStatusStep{},
		&DeriveDatesStep{},
		&ValidateStep{},
		&PersistStep{Store: store, ExportPath: exportPath},
	)
}
