// Package config provides layered configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/basecamp/when/internal/chronic"
)

// Config holds the resolved configuration.
type Config struct {
	// Parser settings
	Context            string `json:"context"`
	AmbiguousTimeRange int    `json:"ambiguous_time_range"`
	Guess              bool   `json:"guess"`
	Compat             bool   `json:"compat"`

	// Presentation settings
	Timezone string `json:"timezone,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Format   string `json:"format"`

	// History settings
	History     bool   `json:"history"`
	HistorySize int    `json:"history_size"`
	CacheDir    string `json:"cache_dir"`

	// Behavior preferences (persisted via config set, overridable by flags)
	Stats   *bool `json:"stats,omitempty"`
	Verbose *int  `json:"verbose,omitempty"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSystem  Source = "system"
	SourceGlobal  Source = "global"
	SourceRepo    Source = "repo"
	SourceLocal   Source = "local"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values. Nil pointers and empty
// strings mean the flag was not given.
type FlagOverrides struct {
	Context        string
	AmbiguousRange *int
	Guess          *bool
	Compat         *bool
	Timezone       string
	Locale         string
	CacheDir       string
	Format         string
}

// Default returns the default configuration.
func Default() *Config {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".cache")
	}

	return &Config{
		Context:            "future",
		AmbiguousTimeRange: chronic.DefaultAmbiguousTimeRange,
		Guess:              true,
		Format:             "auto",
		History:            true,
		HistorySize:        50,
		CacheDir:           filepath.Join(cacheDir, "when"),
		Sources:            make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > local > repo > global > system > defaults
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	// Load from file layers (system -> global -> repo -> local)
	loadFromFile(cfg, systemConfigPath(), SourceSystem)
	loadFromFile(cfg, GlobalConfigPath(), SourceGlobal)

	repoPath := repoConfigPath()
	if repoPath != "" {
		loadFromFile(cfg, repoPath, SourceRepo)
	}

	// Load all local configs from root to current (closer overrides)
	for _, path := range localConfigPaths(repoPath) {
		loadFromFile(cfg, path, SourceLocal)
	}

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	for key, raw := range fileCfg {
		k, ok := LookupKey(key)
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: ignoring unknown key %q in %s\n", key, path)
			continue
		}
		value, err := k.coerce(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring %s in %s: %v\n", key, path, err)
			continue
		}
		k.apply(cfg, value)
		cfg.Sources[key] = string(source)
	}
}

// envVars maps environment variables to config keys.
var envVars = []struct {
	name string
	key  string
}{
	{"WHEN_CONTEXT", "context"},
	{"WHEN_AMBIGUOUS_RANGE", "ambiguous_time_range"},
	{"WHEN_GUESS", "guess"},
	{"WHEN_COMPAT", "compat"},
	{"WHEN_TZ", "timezone"},
	{"WHEN_LOCALE", "locale"},
	{"WHEN_FORMAT", "format"},
	{"WHEN_HISTORY", "history"},
	{"WHEN_HISTORY_SIZE", "history_size"},
	{"WHEN_CACHE_DIR", "cache_dir"},
	{"WHEN_STATS", "stats"},
}

// LoadFromEnv loads configuration from environment variables. Values that
// fail validation are ignored.
func LoadFromEnv(cfg *Config) {
	for _, ev := range envVars {
		v := os.Getenv(ev.name)
		if v == "" {
			continue
		}
		k, _ := LookupKey(ev.key)
		value, err := k.Parse(v)
		if err != nil {
			continue
		}
		k.apply(cfg, value)
		cfg.Sources[ev.key] = string(SourceEnv)
	}

	// WHEN_DEBUG accepts a level or a boolean
	if v := os.Getenv("WHEN_DEBUG"); v != "" {
		level := 0
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 2 {
			level = n
		} else if b, ok := parseEnvBool(v); ok && b {
			level = 1
		}
		if level > 0 {
			cfg.Verbose = &level
			cfg.Sources["verbose"] = string(SourceEnv)
		}
	}
}

// parseEnvBool parses a boolean environment variable strictly.
// Returns (value, true) for recognized values, (false, false) for unrecognized.
func parseEnvBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// ApplyOverrides applies flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.Context != "" {
		cfg.Context = o.Context
		cfg.Sources["context"] = string(SourceFlag)
	}
	if o.AmbiguousRange != nil {
		cfg.AmbiguousTimeRange = *o.AmbiguousRange
		cfg.Sources["ambiguous_time_range"] = string(SourceFlag)
	}
	if o.Guess != nil {
		cfg.Guess = *o.Guess
		cfg.Sources["guess"] = string(SourceFlag)
	}
	if o.Compat != nil {
		cfg.Compat = *o.Compat
		cfg.Sources["compat"] = string(SourceFlag)
	}
	if o.Timezone != "" {
		cfg.Timezone = o.Timezone
		cfg.Sources["timezone"] = string(SourceFlag)
	}
	if o.Locale != "" {
		cfg.Locale = o.Locale
		cfg.Sources["locale"] = string(SourceFlag)
	}
	if o.CacheDir != "" {
		cfg.CacheDir = o.CacheDir
		cfg.Sources["cache_dir"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// Validate checks values that flags can set without going through the key
// registry.
func (cfg *Config) Validate() error {
	if _, err := chronic.ParsePointer(cfg.Context); err != nil {
		return fmt.Errorf("context: %w", err)
	}
	if cfg.AmbiguousTimeRange < 0 || cfg.AmbiguousTimeRange > 23 {
		return fmt.Errorf("ambiguous_time_range: %d outside 0-23", cfg.AmbiguousTimeRange)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured time zone, or time.Local when unset.
func (cfg *Config) Location() (*time.Location, error) {
	if cfg.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// ParserOptions returns parse options for the configured settings relative
// to now, which is converted to the configured time zone.
func (cfg *Config) ParserOptions(now time.Time) (chronic.Options, error) {
	pointer, err := chronic.ParsePointer(cfg.Context)
	if err != nil {
		return chronic.Options{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return chronic.Options{}, err
	}
	return chronic.Options{
		Now:                now.In(loc),
		Context:            pointer,
		AmbiguousTimeRange: cfg.AmbiguousTimeRange,
		Compatibility:      cfg.Compat,
		Guess:              cfg.Guess,
	}, nil
}

// Path helpers

func systemConfigPath() string {
	return "/etc/when/config.json"
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "when")
}

// GlobalConfigPath returns the global config file path.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

// LocalConfigPath returns the config file path for the current directory.
func LocalConfigPath() string {
	return filepath.Join(".when", "config.json")
}

func repoConfigPath() string {
	// Walk up to find .git directory, then look for .when/config.json.
	// Bounded by $HOME: only search within the home directory tree.
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	dir = resolved
	home, _ := os.UserHomeDir()
	if resolved, err := filepath.EvalSymlinks(home); err == nil {
		home = resolved
	}

	if home != "" && !isInsideDir(dir, home) {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			cfgPath := filepath.Join(dir, ".when", "config.json")
			if _, err := os.Stat(cfgPath); err == nil {
				return cfgPath
			}
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		// Don't walk above home directory
		if home != "" && dir == home {
			return ""
		}
		dir = parent
	}
}

// isInsideDir reports whether child is the same as or a subdirectory of parent.
// Both paths must be absolute and already cleaned/resolved.
func isInsideDir(child, parent string) bool {
	if child == parent {
		return true
	}
	prefix := parent
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(child, prefix)
}

// localConfigPaths returns .when/config.json paths within the trust boundary,
// excluding the repo config path (already loaded as SourceRepo).
// Paths are returned from furthest ancestor to closest, so closer configs override.
//
// Trust boundary:
//   - Inside a git repo: only paths at or below the repo root
//   - Outside a git repo: only the current working directory
func localConfigPaths(repoConfigPath string) []string {
	dir, err := os.Getwd()
	if err != nil {
		return nil
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil
	}
	dir = resolved
	var paths []string

	boundary := dir
	if repoConfigPath != "" {
		boundary = filepath.Dir(filepath.Dir(repoConfigPath)) // .when/config.json -> repo root
	}
	if resolved, err := filepath.EvalSymlinks(boundary); err == nil {
		boundary = resolved
	}

	for {
		cfgPath := filepath.Join(dir, ".when", "config.json")
		if _, err := os.Stat(cfgPath); err == nil && cfgPath != repoConfigPath {
			paths = append(paths, cfgPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == boundary {
			break
		}
		dir = parent
	}

	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}

	return paths
}
