// Package config loads service configuration from an optional TOML file,
// an environment overlay file and SALES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSalesEnv        = "SALES_ENV"
	EnvReportOutputDir = "SALES_REPORT_OUTPUT_DIR"
	EnvReportTopN      = "SALES_REPORT_TOP_N"
)

// ErrInvalidConfig is returned when a finalized value fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root configuration for the sales analytics service.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Dataset    DatasetConfig    `toml:"dataset"`
	Postgres   PostgresConfig   `toml:"postgres"`
	ClickHouse ClickHouseConfig `toml:"clickhouse"`
	Report     ReportConfig     `toml:"report"`
}

// ReportConfig holds report generation parameters.
type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
	TopN      int    `toml:"top_n"`
}

// Load reads path (or config.toml when path is empty and the file exists),
// applies the config.<SALES_ENV>.toml overlay next to it, and finalizes.
// Without any file, defaults and environment variables provide everything.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	base := path
	if base == "" {
		if _, err := os.Stat(BaseConfigFile); err == nil {
			base = BaseConfigFile
		}
	}
	if base != "" {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(base); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	c.Server.Merge(&overlay.Server)
	c.Dataset.Merge(&overlay.Dataset)
	c.Postgres.Merge(&overlay.Postgres)
	c.ClickHouse.Merge(&overlay.ClickHouse)
	if overlay.Report.OutputDir != "" {
		c.Report.OutputDir = overlay.Report.OutputDir
	}
	if overlay.Report.TopN != 0 {
		c.Report.TopN = overlay.Report.TopN
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Dataset.Finalize(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if err := c.Postgres.Finalize(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.ClickHouse.Finalize(); err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}
	if c.Dataset.Source == SourcePostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("dataset: %w: source %q requires postgres.dsn", ErrInvalidConfig, SourcePostgres)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "output"
	}
	if c.Report.TopN == 0 {
		c.Report.TopN = 5
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvReportOutputDir); v != "" {
		c.Report.OutputDir = v
	}
	if v := os.Getenv(EnvReportTopN); v != "" {
		if n, err := parseInt(v); err == nil {
			c.Report.TopN = n
		} else {
			c.Report.TopN = -1 // rejected by validate
		}
	}
}

func (c *Config) validate() error {
	if c.Report.TopN <= 0 {
		return fmt.Errorf("%w: report.top_n must be positive", ErrInvalidConfig)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvSalesEnv)
	if env == "" {
		return ""
	}
	dir := "."
	if base != "" {
		dir = filepath.Dir(base)
	}
	path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
