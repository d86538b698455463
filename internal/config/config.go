package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"framekit/internal/logging"
	"framekit/pkg/clique"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "framekit.yaml"

// Config holds all framekit configuration.
type Config struct {
	// Sequence grouping
	Assemble AssembleConfig `yaml:"assemble"`

	// Descriptor rendering
	Format FormatConfig `yaml:"format"`

	// Directory scanning
	Collect CollectConfig `yaml:"collect"`

	// Sequence copies
	Deliver DeliverConfig `yaml:"deliver"`

	// Drop-folder watcher
	Watch WatchConfig `yaml:"watch"`

	// Scan catalog
	Catalog CatalogConfig `yaml:"catalog"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// FormatConfig configures how collections are printed.
type FormatConfig struct {
	Pattern string `yaml:"pattern"` // placeholders: head, tail, padding, range, ranges, holes
}

// CollectConfig configures directory scanning.
type CollectConfig struct {
	Include          string `yaml:"include"` // regexp on file names
	Exclude          string `yaml:"exclude"`
	RequireExtension bool   `yaml:"require_extension"`
	Recursive        bool   `yaml:"recursive"`
	Workers          int    `yaml:"workers"` // roots scanned in parallel
}

// DeliverConfig configures sequence copies.
type DeliverConfig struct {
	Workers   int  `yaml:"workers"` // files copied in parallel
	Overwrite bool `yaml:"overwrite"`
}

// WatchConfig configures the drop-folder watcher.
type WatchConfig struct {
	Debounce    string `yaml:"debounce"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the metrics endpoint
}

// CatalogConfig configures the scan catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Assemble: AssembleConfig{
			MinimumItems:  2,
			CaseSensitive: true,
		},
		Format: FormatConfig{
			Pattern: clique.DefaultFormat,
		},
		Collect: CollectConfig{
			Workers: 4,
		},
		Deliver: DeliverConfig{
			Workers: 8,
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Catalog: CatalogConfig{
			Path: filepath.Join(".framekit", "catalog.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Unparsable numbers are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FRAMEKIT_MIN_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Assemble.MinimumItems = n
		}
	}
	if v := os.Getenv("FRAMEKIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Collect.Workers = n
			c.Deliver.Workers = n
		}
	}
	if v := os.Getenv("FRAMEKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FRAMEKIT_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Assemble.MinimumItems < 0 {
		return fmt.Errorf("assemble.minimum_items must be >= 0")
	}
	if _, err := c.Assemble.Options(); err != nil {
		return err
	}
	if c.Format.Pattern == "" {
		return fmt.Errorf("format.pattern must not be empty")
	}
	for name, expr := range map[string]string{"collect.include": c.Collect.Include, "collect.exclude": c.Collect.Exclude} {
		if expr == "" {
			continue
		}
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Collect.Workers < 1 {
		return fmt.Errorf("collect.workers must be >= 1")
	}
	if c.Deliver.Workers < 1 {
		return fmt.Errorf("deliver.workers must be >= 1")
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// GetDebounce returns the watcher debounce as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// CompileFilters compiles the include and exclude expressions. Empty
// expressions yield nil.
func (c *CollectConfig) CompileFilters() (include, exclude *regexp.Regexp, err error) {
	if c.Include != "" {
		if include, err = regexp.Compile(c.Include); err != nil {
			return nil, nil, fmt.Errorf("collect.include: %w", err)
		}
	}
	if c.Exclude != "" {
		if exclude, err = regexp.Compile(c.Exclude); err != nil {
			return nil, nil, fmt.Errorf("collect.exclude: %w", err)
		}
	}
	return include, exclude, nil
}
