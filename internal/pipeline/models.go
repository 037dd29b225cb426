package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/sales-dashboard/internal/table"
)

// State holds the shared state across all pipeline steps.
type State struct {
	RunID      string
	SourcePath string

	Table  *table.Table
	Report *Report
}

// NewState creates the starting state for one run against the given source.
func NewState(sourcePath string) *State {
	runID := uuid.NewString()
	return &State{
		RunID:      runID,
		SourcePath: sourcePath,
		Report: &Report{
			RunID:      runID,
			SourcePath: sourcePath,
			StartedAt:  time.Now(),
		},
	}
}

// ColumnReport describes one column of the processed table.
type ColumnReport struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	NullCount int    `json:"null_count"`
}

// Report accumulates what each stage did to the data. The validate stage
// fills the final-shape fields; the rest are written by the stage they
// describe.
type Report struct {
	RunID      string    `json:"run_id"`
	SourcePath string    `json:"source_path"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	RowsLoaded     int      `json:"rows_loaded"`
	ColumnsLoaded  int      `json:"columns_loaded"`
	MissingColumns []string `json:"missing_columns,omitempty"`

	ImputedCells      int `json:"imputed_cells"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	NormalizedStatus  int `json:"normalized_status"`
	NormalizedDates   int `json:"normalized_dates"`
	UnparseableDates  int `json:"unparseable_dates"`

	RowCount      int                   `json:"row_count"`
	Columns       []ColumnReport        `json:"columns"`
	SalesSummary  *table.NumericSummary `json:"sales_summary,omitempty"`
	NegativeSales int                   `json:"negative_sales"`
}
