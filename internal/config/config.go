package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Parser   ParserConfig   `yaml:"parser"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Database DatabaseConfig `yaml:"database"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// ParserConfig holds click-log grammar settings.
type ParserConfig struct {
	// Dimension is the dense vector length of user and article contexts.
	Dimension int `yaml:"dimension" env:"PARSER_DIMENSION" env-default:"6"`
}

// IngestConfig holds settings of the file-to-sink pipeline.
type IngestConfig struct {
	InputGlob     string `yaml:"input_glob"     env:"INGEST_INPUT_GLOB"`
	OutputPath    string `yaml:"output_path"    env:"INGEST_OUTPUT_PATH"    env-default:"./parsed.jsonl"`
	Workers       int    `yaml:"workers"        env:"INGEST_WORKERS"        env-default:"1"`
	BatchSize     int    `yaml:"batch_size"     env:"INGEST_BATCH_SIZE"     env-default:"500"`
	ProgressEvery int    `yaml:"progress_every" env:"INGEST_PROGRESS_EVERY" env-default:"1000"`
	MaxLineBytes  int    `yaml:"max_line_bytes" env:"INGEST_MAX_LINE_BYTES" env-default:"1048576"`
	SkipMalformed bool   `yaml:"skip_malformed" env:"INGEST_SKIP_MALFORMED" env-default:"false"`
	DryRun        bool   `yaml:"dry_run"        env:"INGEST_DRY_RUN"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// An empty DSN disables the database sink.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"`
}

// Enabled reports whether a database sink is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.DSN != ""
}
