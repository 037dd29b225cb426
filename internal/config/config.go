package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the complete application configuration, shared by the
// preprocess and api binaries. Values come from SALES_* environment
// variables; the binaries layer command-line flag overrides on top.
type Config struct {
	Logging  LoggingConfig  `envconfig:"LOG"`
	Server   ServerConfig   `envconfig:"SERVER"`
	Store    StoreConfig    `envconfig:"STORE"`
	Pipeline PipelineConfig `envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// StoreConfig contains the SQLite store configuration
type StoreConfig struct {
	Path string `envconfig:"PATH" default:"sales_data.db"`
}

// PipelineConfig contains preprocessing pipeline configuration
type PipelineConfig struct {
	InputPath  string        `envconfig:"INPUT" default:"sales_data.csv"`
	ExportPath string        `envconfig:"EXPORT" default:"processed_sales_data.csv"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"5m"`
}

// Load reads configuration from SALES_* environment variables and
// validates it.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SALES", &cfg); err != nil {
		return nil, fmt.Errorf("Load: processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if c.Pipeline.InputPath == "" {
		return fmt.Errorf("pipeline input path must not be empty")
	}
	if c.Pipeline.ExportPath == "" {
		return fmt.Errorf("pipeline export path must not be empty")
	}
	if c.Pipeline.Timeout <= 0 {
		return fmt.Errorf("pipeline timeout must be positive, got %s", c.Pipeline.Timeout)
	}
	return nil
}
