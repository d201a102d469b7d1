package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.loglens.yaml",               // project config (highest priority)
	"~/.config/loglens/config.yaml", // user config
	"/etc/loglens/config.yaml",      // system config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{configPaths: ConfigPaths}
}

// LoadConfig loads configuration with priority order: flags (caller),
// environment variables, config files from highest to lowest priority
// path, then built-in defaults.
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load lowest priority first so later files win.
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load config from %s: %v\n", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile merges one YAML file into config
func (l *Loader) loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - config paths come from the fixed search list or the user's own flag
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies LOGLENS_* environment variables
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"LOGLENS_PARSE_MAX_ENTRIES":       func(v string) error { return parseInt(v, &config.Parse.MaxEntries) },
		"LOGLENS_PARSE_MAX_LINE_LENGTH":   func(v string) error { return parseInt(v, &config.Parse.MaxLineLength) },
		"LOGLENS_FACETS_TOP_VALUES":       func(v string) error { return parseInt(v, &config.Facets.TopValues) },
		"LOGLENS_FACETS_GAP_THRESHOLD":    func(v string) error { return parseDuration(v, &config.Facets.GapThreshold) },
		"LOGLENS_OUTPUT_DEFAULT_FORMAT":   func(v string) error { config.Output.DefaultFormat = v; return nil },
		"LOGLENS_OUTPUT_COLOR_MODE":       func(v string) error { config.Output.ColorMode = v; return nil },
		"LOGLENS_OUTPUT_VERBOSE":          func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"LOGLENS_OUTPUT_TIMESTAMP_FORMAT": func(v string) error { config.Output.TimestampFormat = v; return nil },
	}

	for env, apply := range envMappings {
		if value := os.Getenv(env); value != "" {
			if err := apply(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", env, err)
			}
		}
	}
	return nil
}

// FindConfigFile returns the first existing config file path
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expanded := expandPath(path)
		if fileExists(expanded) {
			return expanded, true
		}
	}
	return "", false
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// mergeConfigs copies non-zero values from src into dst
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}
	if src.Parse.MaxEntries != 0 {
		dst.Parse.MaxEntries = src.Parse.MaxEntries
	}
	if src.Parse.MaxLineLength != 0 {
		dst.Parse.MaxLineLength = src.Parse.MaxLineLength
	}
	if src.Facets.TopValues != 0 {
		dst.Facets.TopValues = src.Facets.TopValues
	}
	if src.Facets.GapThreshold != 0 {
		dst.Facets.GapThreshold = src.Facets.GapThreshold
	}
	if src.Output.DefaultFormat != "" {
		dst.Output.DefaultFormat = src.Output.DefaultFormat
	}
	if src.Output.ColorMode != "" {
		dst.Output.ColorMode = src.Output.ColorMode
	}
	if src.Output.Verbose {
		dst.Output.Verbose = true
	}
	if src.Output.TimestampFormat != "" {
		dst.Output.TimestampFormat = src.Output.TimestampFormat
	}
}

func parseInt(s string, dst *int) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func parseBool(s string, dst *bool) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
