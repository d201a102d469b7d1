package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Parse   ParseConfig  `yaml:"parse" json:"parse"`
	Facets  FacetConfig  `yaml:"facets" json:"facets"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// ParseConfig bounds a single batch parse
type ParseConfig struct {
	MaxEntries    int `yaml:"max_entries" json:"max_entries"`
	MaxLineLength int `yaml:"max_line_length" json:"max_line_length"`
}

// FacetConfig configures facet derivation
type FacetConfig struct {
	TopValues    int           `yaml:"top_values" json:"top_values"`       // per-key value cap
	GapThreshold time.Duration `yaml:"gap_threshold" json:"gap_threshold"` // hotspot threshold
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"` // text|json|csv|markdown
	ColorMode       string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose         bool   `yaml:"verbose" json:"verbose"`
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Parse: ParseConfig{
			MaxEntries:    100000,
			MaxLineLength: 1024 * 1024, // 1MB
		},
		Facets: FacetConfig{
			TopValues:    10,
			GapThreshold: 5 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			Verbose:         false,
			TimestampFormat: "2006-01-02 15:04:05",
		},
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Parse.MaxEntries < 0 {
		return fmt.Errorf("parse.max_entries must not be negative, got %d", c.Parse.MaxEntries)
	}
	if c.Parse.MaxLineLength <= 0 {
		return fmt.Errorf("parse.max_line_length must be positive, got %d", c.Parse.MaxLineLength)
	}
	if c.Facets.TopValues < 0 {
		return fmt.Errorf("facets.top_values must not be negative, got %d", c.Facets.TopValues)
	}
	if c.Facets.GapThreshold < 0 {
		return fmt.Errorf("facets.gap_threshold must not be negative, got %s", c.Facets.GapThreshold)
	}

	switch c.Output.DefaultFormat {
	case "text", "json", "csv", "markdown", "md":
	default:
		return fmt.Errorf("output.default_format must be one of text, json, csv, markdown; got %q", c.Output.DefaultFormat)
	}

	switch c.Output.ColorMode {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color_mode must be one of auto, always, never; got %q", c.Output.ColorMode)
	}

	return nil
}
