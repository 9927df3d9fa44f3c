package ingest

import "github.com/log0ymxm/parse-click-data/internal/config"

// Config holds ingest pipeline settings.
type Config struct {
	InputGlob     string
	Dimension     int
	Workers       int
	BatchSize     int
	ProgressEvery int
	MaxLineBytes  int
	SkipMalformed bool
	DryRun        bool
}

// NewConfig builds pipeline settings from the application configuration.
func NewConfig(cfg config.Config) Config {
	return Config{
		InputGlob:     cfg.Ingest.InputGlob,
		Dimension:     cfg.Parser.Dimension,
		Workers:       cfg.Ingest.Workers,
		BatchSize:     cfg.Ingest.BatchSize,
		ProgressEvery: cfg.Ingest.ProgressEvery,
		MaxLineBytes:  cfg.Ingest.MaxLineBytes,
		SkipMalformed: cfg.Ingest.SkipMalformed,
		DryRun:        cfg.Ingest.DryRun,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.BatchSize < 1 {
		c.BatchSize = 500
	}
	if c.MaxLineBytes < 4096 {
		c.MaxLineBytes = 1 << 20
	}
	return c
}
