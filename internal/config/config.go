package config

import (
	"path/filepath"
	"runtime"
)

// DefaultOutputDirName is the output directory created under the input
// directory when no output is configured.
const DefaultOutputDirName = ".codemap"

// Config represents the complete codemap configuration.
// It can be loaded from .codemap.yml with environment variable overrides.
type Config struct {
	Input       string           `yaml:"input" mapstructure:"input"`             // directory to analyze
	Output      string           `yaml:"output" mapstructure:"output"`           // empty means <input>/.codemap
	Thresholds  ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`   // high-signal cutoffs
	Progress    bool             `yaml:"progress" mapstructure:"progress"`       // show progress output
	Concurrency int              `yaml:"concurrency" mapstructure:"concurrency"` // max files read at once
	Paths       PathsConfig      `yaml:"paths" mapstructure:"paths"`
}

// ThresholdsConfig holds the two independent high-signal thresholds.
// Both are inclusive.
type ThresholdsConfig struct {
	MinSignal int `yaml:"min_signal" mapstructure:"min_signal"` // minimum symbols in a directory
	MinFiles  int `yaml:"min_files" mapstructure:"min_files"`   // minimum source files in a directory
}

// PathsConfig defines extra paths to leave out of discovery.
type PathsConfig struct {
	Ignore []string `yaml:"ignore" mapstructure:"ignore"` // glob patterns matched against slash paths
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Input:  ".",
		Output: "",
		Thresholds: ThresholdsConfig{
			MinSignal: 20,
			MinFiles:  3,
		},
		Progress:    true,
		Concurrency: runtime.NumCPU(),
		Paths: PathsConfig{
			Ignore: []string{},
		},
	}
}

// InputDir returns the absolute input directory.
func (c *Config) InputDir() (string, error) {
	return filepath.Abs(c.Input)
}

// OutputDir returns the absolute output directory, defaulting to
// <input>/.codemap.
func (c *Config) OutputDir() (string, error) {
	if c.Output != "" {
		return filepath.Abs(c.Output)
	}
	input, err := c.InputDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(input, DefaultOutputDirName), nil
}
