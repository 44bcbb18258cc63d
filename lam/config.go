package lam

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/lam/internal/eval"
)

// DefaultConfigFile is where the CLI looks for configuration.
const DefaultConfigFile = ".lam.yaml"

// Config represents the overall configuration of the interpreter.
type Config struct {
	Name        string      `yaml:"name"`
	MaxDepth    int         `yaml:"max_depth"`
	Color       bool        `yaml:"color"`
	HistoryFile string      `yaml:"history_file"`
	Cache       CacheConfig `yaml:"cache"`
}

// CacheConfig controls the on-disk result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	MaxAge  time.Duration `yaml:"max_age"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Name:        "lam",
		MaxDepth:    eval.DefaultMaxDepth,
		Color:       true,
		HistoryFile: ".lam_history",
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".lam-cache",
			MaxAge:  24 * time.Hour,
		},
	}
}

// LoadConfig reads the configuration at path over the defaults. A missing
// or empty file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Validate reports settings the engine cannot run with.
func (c Config) Validate() error {
	if !eval.ValidMaxDepth(c.MaxDepth) {
		return fmt.Errorf("max_depth must be between 1 and %d, got %d", eval.MaxDepthLimit, c.MaxDepth)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return errors.New("cache.dir must be set when the cache is enabled")
	}
	return nil
}

// WriteConfig writes config to path as YAML.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, d, 0o644)
}
