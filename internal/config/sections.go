package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dshills/linestore/internal/engine/linestore"
	"github.com/dshills/linestore/internal/logging"
)

// Store defaults mirror the engine's.
const (
	DefaultLinesPerBlock = linestore.DefaultLinesPerBlock
	DefaultHeaderSize    = linestore.DefaultHeaderSize
	DefaultMaxLineLength = linestore.DefaultMaxLineLength
)

// Section accessors return snapshot structs. Mutating the returned struct
// does not modify the configuration; use Config.Set.

// StoreConfig provides type-safe access to line storage settings.
type StoreConfig struct {
	// LinesPerBlock is the capacity of a block.
	LinesPerBlock int

	// HeaderSize is the number of blocks per header table.
	HeaderSize int

	// MaxLineLength is the byte length beyond which lines wrap.
	MaxLineLength int

	// Strategy is the split strategy name ("balanced" or "append").
	Strategy string

	// ReadOnly drops write access once the document is loaded.
	ReadOnly bool

	// FilterControl strips control characters and escape sequences on load.
	FilterControl bool
}

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum level written ("debug", "info", "warn", "error").
	Level string

	// File receives log output; empty means standard error.
	File string
}

// Store returns type-safe access to store settings.
func (c *Config) Store() StoreConfig {
	return StoreConfig{
		LinesPerBlock: c.getIntOr("store.lines_per_block", DefaultLinesPerBlock),
		HeaderSize:    c.getIntOr("store.header_size", DefaultHeaderSize),
		MaxLineLength: c.getIntOr("store.max_line_length", DefaultMaxLineLength),
		Strategy:      c.getStringOr("store.strategy", "balanced"),
		ReadOnly:      c.getBoolOr("store.read_only", false),
		FilterControl: c.getBoolOr("store.filter_control", false),
	}
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// ParseStrategy maps a strategy name to the engine's value.
func ParseStrategy(name string) (linestore.Strategy, error) {
	switch strings.ToLower(name) {
	case "", "balanced":
		return linestore.Balanced, nil
	case "append", "append-optimized":
		return linestore.AppendOptimized, nil
	default:
		return linestore.Balanced, &ValidationError{
			Path:    "store.strategy",
			Value:   name,
			Message: `must be "balanced" or "append"`,
		}
	}
}

// Options converts the section into store options. An unknown strategy
// falls back to balanced; Validate reports it. ReadOnly is left out so
// the store can still be loaded; apply it with SetWritable afterwards.
func (sc StoreConfig) Options(log *logging.Logger) []linestore.Option {
	st, _ := ParseStrategy(sc.Strategy)
	opts := []linestore.Option{
		linestore.WithGeometry(sc.LinesPerBlock, sc.HeaderSize),
		linestore.WithMaxLineLength(sc.MaxLineLength),
		linestore.WithStrategy(st),
	}
	if log != nil {
		opts = append(opts, linestore.WithLogger(log))
	}
	return opts
}

// Logger builds a logger writing to the configured file, or to standard
// error when none is set. The returned closer releases the file.
func (lc LoggingConfig) Logger() (*logging.Logger, io.Closer, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(lc.Level)
	if lc.File == "" {
		return logging.New(cfg), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(lc.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(lc.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	cfg.Output = f
	return logging.New(cfg), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Validate checks every setting against its allowed range and reports all
// problems found, including type mismatches.
func (c *Config) Validate() error {
	c.ClearConfigErrors()
	sc := c.Store()
	lc := c.Logging()

	var errs []error
	typeErrs := c.ConfigErrors()
	for _, path := range slices.Sorted(maps.Keys(typeErrs)) {
		errs = append(errs, typeErrs[path])
	}

	check := func(path string, v, least int) {
		if v < least {
			errs = append(errs, &ValidationError{Path: path, Value: v, Message: fmt.Sprintf("must be at least %d", least)})
		}
	}
	check("store.lines_per_block", sc.LinesPerBlock, linestore.MinGeometry)
	check("store.header_size", sc.HeaderSize, linestore.MinGeometry)
	check("store.max_line_length", sc.MaxLineLength, 1)

	if _, err := ParseStrategy(sc.Strategy); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(lc.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Value: lc.Level, Message: "unknown level"})
	}

	return errors.Join(errs...)
}

// These methods only return the default for ErrSettingNotFound. Type
// errors are recorded and also return the default so callers keep working.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

// recordConfigError keeps the first error seen for each path.
func (c *Config) recordConfigError(path string, err error) {
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns the type errors encountered by section accessors.
func (c *Config) ConfigErrors() map[string]error {
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// ClearConfigErrors clears any stored configuration errors.
func (c *Config) ClearConfigErrors() {
	c.configErrors = nil
}
