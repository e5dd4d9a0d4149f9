// Package config provides configuration structures for the benchmark CLI.
package config

import (
	"fmt"
)

// Config represents the benchmark configuration.
type Config struct {
	// Database connection settings
	URI      string `yaml:"uri" json:"uri"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Database string `yaml:"database" json:"database"`

	// Benchmark settings
	Iterations int    `yaml:"iterations" json:"iterations"`
	ResultsDir string `yaml:"results_dir" json:"results_dir"`
	Warmup     bool   `yaml:"warmup" json:"warmup"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Comparisons overrides the stock suite when non-empty.
	Comparisons []ComparisonConfig `yaml:"comparisons" json:"comparisons"`
}

// MetricsConfig represents metrics configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
}

// ComparisonConfig names one suite entry.
type ComparisonConfig struct {
	Operation string `yaml:"operation" json:"operation" mapstructure:"operation"`
	Label1    string `yaml:"label1" json:"label1" mapstructure:"label1"`
	Label2    string `yaml:"label2" json:"label2" mapstructure:"label2"`
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("database uri is required")
	}

	if c.Iterations <= 0 {
		c.Iterations = 10
	}

	if c.ResultsDir == "" {
		c.ResultsDir = "test_results"
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.LogLevel)
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}

	for i, cmp := range c.Comparisons {
		if cmp.Operation == "" {
			return fmt.Errorf("comparison %d: operation is required", i)
		}
		if cmp.Label1 == "" {
			return fmt.Errorf("comparison %d: label1 is required", i)
		}
	}

	return nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		URI:        "neo4j://localhost:7687",
		Username:   "neo4j",
		Database:   "",
		Iterations: 10,
		ResultsDir: "test_results",
		Warmup:     true,
		LogLevel:   "info",
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
		},
	}
}
