package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/log0ymxm/parse-click-data/internal/adapter/jsonl"
	"github.com/log0ymxm/parse-click-data/internal/adapter/postgres"
	"github.com/log0ymxm/parse-click-data/internal/adapter/postgres/visit"
	"github.com/log0ymxm/parse-click-data/internal/app/ingest"
	"github.com/log0ymxm/parse-click-data/internal/config"
)

// ErrIncomplete is returned when the run finished but some input files failed.
var ErrIncomplete = errors.New("ingest completed with errors")

// Compile-time interface assertions.
var (
	_ ingest.VisitSink = (*jsonl.Writer)(nil)
	_ ingest.VisitSink = (*visit.Repo)(nil)
)

// Run is the application entry point. It opens the configured sinks
// (JSONL output file, optional PostgreSQL store), runs the ingest pipeline
// and closes the sinks. Dry runs open no sinks.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	logger.Info("starting parse-click-data",
		slog.String("version", BuildVersion()),
		slog.String("input", cfg.Ingest.InputGlob),
		slog.String("output", cfg.Ingest.OutputPath),
		slog.Bool("database", cfg.Database.Enabled()),
		slog.String("log_level", cfg.Log.Level),
	)

	var sinks []ingest.VisitSink

	if !cfg.Ingest.DryRun && cfg.Ingest.OutputPath != "" {
		out, err := jsonl.Create(cfg.Ingest.OutputPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := out.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
		sinks = append(sinks, out)
	}

	if !cfg.Ingest.DryRun && cfg.Database.Enabled() {
		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
				return err
			}
		}

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		sinks = append(sinks, visit.New(pool))
	}

	pipeline := ingest.NewPipeline(logger, ingest.NewConfig(*cfg), sinks...)
	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if pipeline.HasErrors() {
		return ErrIncomplete
	}

	logger.Info("run completed successfully", slog.String("run_id", pipeline.RunID().String()))
	return nil
}
