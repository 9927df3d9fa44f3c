package config

import (
	"fmt"
	"strings"
)

const minLineBytes = 4096

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.Parser.Dimension <= 0 {
		return fmt.Errorf("parser.dimension must be > 0 (got %d)", c.Parser.Dimension)
	}

	if err := c.Ingest.validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if c.Database.Enabled() {
		if err := c.Database.validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
}

func (i *IngestConfig) validate() error {
	if i.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", i.Workers)
	}
	if i.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1 (got %d)", i.BatchSize)
	}
	if i.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be >= 0 (got %d)", i.ProgressEvery)
	}
	if i.MaxLineBytes < minLineBytes {
		return fmt.Errorf("max_line_bytes must be >= %d (got %d)", minLineBytes, i.MaxLineBytes)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be within 0..max_conns (got %d, max %d)", d.MinConns, d.MaxConns)
	}
	return nil
}
