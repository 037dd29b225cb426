// Package pipeline cleans a raw sales-transaction CSV and loads it into the
// store: load, project, impute, dedupe, normalize, derive dates, validate,
// persist. Steps run in order and the first failure aborts the run; nothing
// is written to the store until the final step, which commits in one
// transaction, so a failed run leaves the previous table intact.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/dvloznov/sales-dashboard/internal/store/sqlite"
)

// Config names the inputs and outputs of one preprocessing run.
type Config struct {
	InputPath  string
	StorePath  string
	ExportPath string
}

// Result reports a completed preprocessing run.
type Result struct {
	RunID  string
	Report *Report
}

// Run executes the preprocessing pipeline once against cfg.InputPath,
// replacing the sales table at cfg.StorePath and writing the processed CSV
// to cfg.ExportPath.
func Run(ctx context.Context, cfg Config, log zerolog.Logger) (*Result, error) {
	store, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("Run: opening store: %w", err)
	}
	defer store.Close()

	return RunWithStore(ctx, cfg, store, log)
}

// RunWithStore executes the pipeline against an already-open store. The
// caller keeps ownership of the store handle.
func RunWithStore(ctx context.Context, cfg Config, store *sqlite.Store, log zerolog.Logger) (*Result, error) {
	state := NewState(cfg.InputPath)
	log = log.With().Str("run_id", state.RunID).Logger()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("input", cfg.InputPath).
		Str("store", store.Path()).
		Msg("starting preprocessing run")

	p := NewPreprocessPipeline(store, cfg.ExportPath)
	if err := p.Execute(ctx, state); err != nil {
		return nil, err
	}

	state.Report.FinishedAt = time.Now()
	log.Info().
		Int("rows", state.Report.RowCount).
		Int("duplicates_removed", state.Report.DuplicatesRemoved).
		Int("cells_imputed", state.Report.ImputedCells).
		Int("negative_sales", state.Report.NegativeSales).
		Dur("elapsed", state.Report.FinishedAt.Sub(state.Report.StartedAt)).
		Msg("preprocessing run complete")

	return &Result{RunID: state.RunID, Report: state.Report}, nil
}
