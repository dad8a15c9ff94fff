package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDatasetSource  = "SALES_DATASET_SOURCE"
	EnvDatasetURL     = "SALES_DATASET_URL"
	EnvDatasetPath    = "SALES_DATASET_PATH"
	EnvDatasetTimeout = "SALES_DATASET_TIMEOUT"
)

// Dataset source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// DatasetConfig selects where raw sales come from.
type DatasetConfig struct {
	Source  string `toml:"source"` // file, http or postgres
	URL     string `toml:"url"`
	Path    string `toml:"path"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *DatasetConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DatasetConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DatasetConfig) Merge(overlay *DatasetConfig) {
	if overlay.Source != "" {
		c.Source = overlay.Source
	}
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *DatasetConfig) loadDefaults() {
	if c.Source == "" {
		c.Source = SourceFile
	}
	if c.Path == "" {
		c.Path = "data/sales.json"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *DatasetConfig) loadEnv() {
	if v := os.Getenv(EnvDatasetSource); v != "" {
		c.Source = v
	}
	if v := os.Getenv(EnvDatasetURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvDatasetPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvDatasetTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *DatasetConfig) validate() error {
	switch c.Source {
	case SourceFile, SourcePostgres:
	case SourceHTTP:
		if c.URL == "" {
			return fmt.Errorf("%w: url is required for source %q", ErrInvalidConfig, SourceHTTP)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("%w: timeout %q must be a positive duration", ErrInvalidConfig, c.Timeout)
	}
	return nil
}
