// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/plugload/plugload/pkg/types"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// DefaultManifest is the manifest path used when none is configured.
	DefaultManifest types.FilesystemPath = "autoload.json"
	// DefaultCacheSize is the default resolution cache size.
	DefaultCacheSize = 256
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// LogLevel is the minimum level the CLI logger emits.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel is not one of the known levels.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Config holds the application configuration.
	Config struct {
		// Manifest is the path of the autoload manifest.
		Manifest types.FilesystemPath `json:"manifest" mapstructure:"manifest"`
		// DocumentRoot is the base for relative manifest directories.
		DocumentRoot types.FilesystemPath `json:"document_root,omitempty" mapstructure:"document_root"`
		// Extension is the source file extension.
		Extension string `json:"extension" mapstructure:"extension"`
		// CacheSize bounds the resolution cache. Zero disables it.
		CacheSize int `json:"cache_size" mapstructure:"cache_size"`
		// Generator configures namespace tree generation.
		Generator GeneratorConfig `json:"generator" mapstructure:"generator"`
		// LogLevel is the CLI log level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
	}

	// GeneratorConfig configures namespace tree generation.
	GeneratorConfig struct {
		SkipHidden bool     `json:"skip_hidden" mapstructure:"skip_hidden"`
		Ignore     []string `json:"ignore" mapstructure:"ignore"`
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidLoadOptionsError collects the field errors of LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Manifest:  DefaultManifest,
		Extension: ".php",
		CacheSize: DefaultCacheSize,
		Generator: GeneratorConfig{
			SkipHidden: true,
			Ignore:     []string{},
		},
		LogLevel: LogLevelInfo,
	}
}

// IsValid returns whether the LogLevel is a known level.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// SlogLevel converts the level for slog handlers. Unknown levels map to info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the Config has valid fields. It covers what the
// CUE schema cannot: doublestar pattern syntax and values set through the
// environment.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if err := c.Manifest.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("manifest: %w", err))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size: must be >= 0, got %d", c.CacheSize))
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for i, pat := range c.Generator.Ignore {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("generator.ignore[%d]: invalid pattern %q", i, pat))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidLoadOptionsError.
func (e *InvalidLoadOptionsError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid load options: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid load options: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
