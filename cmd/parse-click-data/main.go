// Command parse-click-data converts Yahoo! Front Page click logs into JSON
// Lines, one visit per line, and optionally stores them in PostgreSQL.
//
// Usage:
//
//	parse-click-data [flags] [<input_glob> [<output_file>]]
//
// Flags:
//
//	--config          path to YAML config file (overrides CONFIG_PATH)
//	--input           glob of input files; plain or gzip-compressed
//	--output          output file, "-" for stdout
//	--workers         number of parser goroutines
//	--skip-malformed  log and skip malformed lines instead of aborting
//	--dry-run         parse without writing anything
//	--db              PostgreSQL DSN of the visit store
//	--migrate         apply database migrations before ingesting
//	--version         print version and exit
//
// Positional arguments take precedence over --input and --output.
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/log0ymxm/parse-click-data/internal/app"
	"github.com/log0ymxm/parse-click-data/internal/config"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file (default: $CONFIG_PATH or ./config.yaml)")
	inputFlag := flag.String("input", "", "glob of input click-log files")
	outputFlag := flag.String("output", "", `output JSONL file, "-" for stdout`)
	workersFlag := flag.Int("workers", 0, "number of parser goroutines")
	skipFlag := flag.Bool("skip-malformed", false, "log and skip malformed lines instead of aborting")
	dryRunFlag := flag.Bool("dry-run", false, "parse without writing output")
	dbFlag := flag.String("db", "", "PostgreSQL DSN of the visit store")
	migrateFlag := flag.Bool("migrate", false, "apply database migrations before ingesting")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return
	}

	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}

	path := *configFlag
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// CLI flags override config.
	if *inputFlag != "" {
		cfg.Ingest.InputGlob = *inputFlag
	}
	if *outputFlag != "" {
		cfg.Ingest.OutputPath = *outputFlag
	}
	if flag.NArg() > 0 {
		cfg.Ingest.InputGlob = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		cfg.Ingest.OutputPath = flag.Arg(1)
	}
	if *workersFlag > 0 {
		cfg.Ingest.Workers = *workersFlag
	}
	if *skipFlag {
		cfg.Ingest.SkipMalformed = true
	}
	if *dryRunFlag {
		cfg.Ingest.DryRun = true
	}
	if *dbFlag != "" {
		cfg.Database.DSN = *dbFlag
	}
	if *migrateFlag {
		cfg.Database.Migrate = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		if errors.Is(err, app.ErrIncomplete) {
			logger.Warn("run completed with errors")
		} else {
			logger.Error("run failed", slog.String("error", err.Error()))
		}
		stop()
		os.Exit(1)
	}
}
