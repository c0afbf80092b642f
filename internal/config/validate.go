package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyInput indicates a missing input directory
	ErrEmptyInput = errors.New("empty input directory")

	// ErrInvalidThreshold indicates a negative signal or file threshold
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrInvalidConcurrency indicates a non-positive concurrency bound
	ErrInvalidConcurrency = errors.New("invalid concurrency")

	// ErrInvalidIgnorePattern indicates an ignore glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidProgress indicates a progress value other than 0 or 1
	ErrInvalidProgress = errors.New("invalid progress value")
)

// parseProgress converts a raw progress setting to a bool. Flags and
// environment variables arrive as strings, config files as bools or ints.
func parseProgress(raw any) (bool, error) {
	switch val := raw.(type) {
	case bool:
		return val, nil
	case int:
		switch val {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "0", "false":
			return false, nil
		case "1", "true":
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: progress must be 0 or 1, got %v", ErrInvalidProgress, raw)
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Input) == "" {
		errs = append(errs, fmt.Errorf("%w: input is required", ErrEmptyInput))
	}

	if err := validateThresholds(&cfg.Thresholds); err != nil {
		errs = append(errs, err)
	}

	if cfg.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConcurrency, cfg.Concurrency))
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateThresholds(cfg *ThresholdsConfig) error {
	var errs []error

	// Zero is allowed for both: it disables that threshold.
	if cfg.MinSignal < 0 {
		errs = append(errs, fmt.Errorf("%w: min_signal cannot be negative, got %d", ErrInvalidThreshold, cfg.MinSignal))
	}
	if cfg.MinFiles < 0 {
		errs = append(errs, fmt.Errorf("%w: min_files cannot be negative, got %d", ErrInvalidThreshold, cfg.MinFiles))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnorePattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// A single error is returned unchanged so errors.Is keeps working.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &multiError{errs: errs}
}

// multiError formats like a bulleted list and unwraps to every member.
type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	msgs := make([]string, 0, len(m.errs))
	for _, err := range m.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (m *multiError) Unwrap() []error {
	return m.errs
}
