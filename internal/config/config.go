// Package config provides layered configuration for linestore tools.
//
// Values are merged from three layers, later ones winning: built-in
// defaults, a TOML file (with optional @include), and LINESTORE_*
// environment variables. Typed section accessors such as Store and
// Logging return snapshot structs.
package config

import (
	"fmt"
	"strings"

	"github.com/dshills/linestore/internal/config/loader"
)

// maxIncludeDepth bounds nested @include directives.
const maxIncludeDepth = 8

// Config holds merged configuration values. It is built and read by one
// goroutine; callers sharing a Config must serialize access.
type Config struct {
	data map[string]any
	path string

	// configErrors records type mismatches seen by the section accessors.
	configErrors map[string]error
}

// Default returns a configuration holding only built-in defaults.
func Default() *Config {
	return &Config{data: defaultConfig()}
}

// Load reads path from the OS file system and the process environment.
// A missing file is not an error; the defaults and environment apply.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path, envLoader())
}

// envLoader maps LINESTORE_LINES_PER_BLOCK and similar names straight into
// the store section. By convention they would land in lines.per_block.
func envLoader() *loader.EnvLoader {
	env := loader.NewEnvLoader(loader.EnvPrefix)
	for _, key := range []string{"lines_per_block", "header_size", "max_line_length", "filter_control"} {
		env.AddMapping(loader.EnvPrefix+strings.ToUpper(key), "store."+key)
	}
	return env
}

// LoadFS is Load with an explicit file system and environment source.
// An empty path skips the file layer; a nil env skips the environment.
func LoadFS(fsys loader.FileSystem, path string, env loader.Loader) (*Config, error) {
	c := Default()
	c.path = path

	if path != "" {
		file, err := loader.NewTOMLLoaderWithFS(fsys, path).LoadWithIncludes(path, maxIncludeDepth)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		c.data = loader.DeepMerge(c.data, file)
	}

	if env != nil {
		vars, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		c.data = loader.DeepMerge(c.data, vars)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// Get returns the value at a dot-separated path.
func (c *Config) Get(path string) (any, bool) {
	return getPath(c.data, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "float64"}
		}
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Set stores a value at the given path, creating intermediate sections.
func (c *Config) Set(path string, value any) error {
	return setPath(c.data, path, value)
}

// Merged returns a deep copy of the merged configuration map.
func (c *Config) Merged() map[string]any {
	return loader.Clone(c.data)
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"store": map[string]any{
			"lines_per_block": DefaultLinesPerBlock,
			"header_size":     DefaultHeaderSize,
			"max_line_length": DefaultMaxLineLength,
			"strategy":        "balanced",
			"read_only":       false,
			"filter_control":  false,
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not a section", ErrInvalidPath, part)
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path, dropping empty segments.
func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
