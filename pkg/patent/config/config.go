// Package config holds the YAML run configuration. CLI flags override any
// field after Load.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/patentflow/patentflow/pkg/patent/internalerr"
)

// Config is one corpus run's settings.
type Config struct {
	// DBPath is the SQLite partition for this corpus.
	DBPath string `yaml:"db_path"`
	// WorkDir receives downloaded zips and extracted/repaired XML files.
	WorkDir string `yaml:"work_dir"`
	// ListingURL is the bulk-data index page to scrape for source files.
	ListingURL string `yaml:"listing_url"`
	// DecomposerLimit bounds concurrent decomposers per document; 0 means
	// unbounded.
	DecomposerLimit int `yaml:"decomposer_limit"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DBPath:          "patents.db",
		WorkDir:         ".",
		DecomposerLimit: 8,
		LogLevel:        "info",
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no run can proceed with.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is empty", internalerr.ErrInvalidConfig)
	}
	if c.DecomposerLimit < 0 {
		return fmt.Errorf("%w: decomposer_limit is negative", internalerr.ErrInvalidConfig)
	}
	return nil
}
