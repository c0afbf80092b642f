package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"input":       "input",
	"output":      "output",
	"min-signal":  "thresholds.min_signal",
	"min-files":   "thresholds.min_files",
	"progress":    "progress",
	"concurrency": "concurrency",
}

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables → flags
	Load() (*Config, error)
}

type loader struct {
	rootDir string
	flags   *pflag.FlagSet
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewLoaderWithFlags creates a loader that also applies explicitly set CLI
// flags on top of file and environment values.
func NewLoaderWithFlags(rootDir string, flags *pflag.FlagSet) Loader {
	return &loader{
		rootDir: rootDir,
		flags:   flags,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. CLI flags that were set explicitly
// 2. Environment variables (CODEMAP_*), including ones from <root>/.env
// 3. Config file (<root>/.codemap.yml or .codemap.yaml)
// 4. Default values
func (l *loader) Load() (*Config, error) {
	// .env never overrides variables that are already set
	if err := godotenv.Load(filepath.Join(l.rootDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	// Configure viper
	v := viper.New()

	// Set up config file search
	v.SetConfigName(".codemap")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("CODEMAP")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CODEMAP_THRESHOLDS_MIN_SIGNAL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("input")
	v.BindEnv("output")
	v.BindEnv("thresholds.min_signal")
	v.BindEnv("thresholds.min_files")
	v.BindEnv("progress")
	v.BindEnv("concurrency")
	// Comma separated, e.g. CODEMAP_PATHS_IGNORE="**/*.pb.go,generated/**"
	v.BindEnv("paths.ignore")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if l.flags != nil {
		for name, key := range flagKeys {
			if f := l.flags.Lookup(name); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
	}

	// Progress accepts only 0/1 (or true/false), whatever its source
	progress, err := parseProgress(v.Get("progress"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	v.Set("progress", progress)

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("input", defaults.Input)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("thresholds.min_signal", defaults.Thresholds.MinSignal)
	v.SetDefault("thresholds.min_files", defaults.Thresholds.MinFiles)
	v.SetDefault("progress", defaults.Progress)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
