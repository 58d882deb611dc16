// Package config assembles CLI configuration from environment variables
// and an optional YAML file. Flags, file, and env are merged in the CLI;
// the engine itself never reads configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/stacksift/internal/logging"
	"github.com/crimson-sun/stacksift/internal/normalizer"
)

// Config holds all stacksift CLI configuration.
type Config struct {
	Grammar  string `yaml:"grammar"` // grammar id or "dynamic"
	Mode     string `yaml:"mode"`    // "split" or "multiline"
	MaxBytes int    `yaml:"max_bytes"`
	MaxLines int    `yaml:"max_lines"`

	Substitutions []normalizer.Rule `yaml:"substitutions"`
	Filters       []string          `yaml:"filters"`

	Output  OutputConfig   `yaml:"output"`
	Logging logging.Config `yaml:"logging"`
	Watch   WatchConfig    `yaml:"watch"`
}

// OutputConfig selects where the report goes.
type OutputConfig struct {
	Format     string `yaml:"format"` // "text" or "json"
	File       string `yaml:"file"`   // write report to a file instead of stdout
	WebhookURL string `yaml:"webhook_url"`
	Pretty     bool   `yaml:"pretty"`
}

// WatchConfig tunes the watch subcommand.
type WatchConfig struct {
	IntervalSec int `yaml:"interval_sec"`
	WindowLines int `yaml:"window_lines"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Grammar:  getenv("STACKSIFT_GRAMMAR", "dynamic"),
		Mode:     getenv("STACKSIFT_MODE", "multiline"),
		MaxBytes: getenvInt("STACKSIFT_MAX_BYTES", 0),
		MaxLines: getenvInt("STACKSIFT_MAX_LINES", 0),
		Output: OutputConfig{
			Format:     getenv("STACKSIFT_OUTPUT_FORMAT", "text"),
			File:       os.Getenv("STACKSIFT_OUTPUT_FILE"),
			WebhookURL: os.Getenv("STACKSIFT_WEBHOOK_URL"),
		},
		Logging: logging.Config{
			Level: getenv("STACKSIFT_LOG_LEVEL", "info"),
			File:  os.Getenv("STACKSIFT_LOG_FILE"),
		},
		Watch: WatchConfig{
			IntervalSec: getenvInt("STACKSIFT_WATCH_INTERVAL", 30),
			WindowLines: getenvInt("STACKSIFT_WATCH_WINDOW", 5000),
		},
	}
}

// MergeFile overlays settings from a YAML file onto c. Unset file fields
// leave the existing values alone.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
