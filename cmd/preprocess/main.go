package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/dvloznov/sales-dashboard/internal/config"
	"github.com/dvloznov/sales-dashboard/internal/logger"
	"github.com/dvloznov/sales-dashboard/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; deployments set SALES_* variables directly.
	_ = godotenv.Load()

	var (
		input      = flag.String("input", "", "raw sales CSV to load (overrides SALES_PIPELINE_INPUT)")
		storePath  = flag.String("store", "", "SQLite store path (overrides SALES_STORE_PATH)")
		export     = flag.String("export", "", "processed CSV export path (overrides SALES_PIPELINE_EXPORT)")
		reportPath = flag.String("report", "", "write the run report as JSON to this path")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if *input != "" {
		cfg.Pipeline.InputPath = *input
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *export != "" {
		cfg.Pipeline.ExportPath = *export
	}

	log := logger.NewWithLevel(logger.ParseLevel(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Pipeline.Timeout)
	defer cancel()

	result, err := pipeline.Run(ctx, pipeline.Config{
		InputPath:  cfg.Pipeline.InputPath,
		StorePath:  cfg.Store.Path,
		ExportPath: cfg.Pipeline.ExportPath,
	}, log)
	if err != nil {
		return err
	}

	if *reportPath != "" {
		data, err := json.MarshalIndent(result.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if err := os.WriteFile(*reportPath, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		log.Info().Str("path", *reportPath).Msg("wrote run report")
	}

	return nil
}
