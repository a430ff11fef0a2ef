package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/basecamp/when/internal/chronic"
)

// Kind is the JSON type a key is stored as.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
)

// Key describes one persisted configuration setting.
type Key struct {
	Name        string
	Kind        Kind
	Description string

	validate func(v any) (any, error)
	apply    func(cfg *Config, v any)
}

var keys = []Key{
	{
		Name: "context", Kind: KindString,
		Description: "Direction for bare expressions: past, future or none",
		validate: func(v any) (any, error) {
			s := strings.ToLower(v.(string))
			if _, err := chronic.ParsePointer(s); err != nil {
				return nil, err
			}
			return s, nil
		},
		apply: func(cfg *Config, v any) { cfg.Context = v.(string) },
	},
	{
		Name: "ambiguous_time_range", Kind: KindInt,
		Description: "Start hour of the window a bare hour like \"5\" falls in (0 disables)",
		validate:    intRange(0, 23),
		apply:       func(cfg *Config, v any) { cfg.AmbiguousTimeRange = v.(int) },
	},
	{
		Name: "guess", Kind: KindBool,
		Description: "Collapse results to a single instant",
		apply:       func(cfg *Config, v any) { cfg.Guess = v.(bool) },
	},
	{
		Name: "compat", Kind: KindBool,
		Description: "Use legacy month and day-portion disambiguation",
		apply:       func(cfg *Config, v any) { cfg.Compat = v.(bool) },
	},
	{
		Name: "timezone", Kind: KindString,
		Description: "IANA time zone for the reference instant (empty for local)",
		validate: func(v any) (any, error) {
			if _, err := time.LoadLocation(v.(string)); err != nil {
				return nil, err
			}
			return v, nil
		},
		apply: func(cfg *Config, v any) { cfg.Timezone = v.(string) },
	},
	{
		Name: "locale", Kind: KindString,
		Description: "BCP 47 tag for relative descriptions (empty to detect)",
		validate: func(v any) (any, error) {
			s := v.(string)
			if s == "" {
				return s, nil
			}
			tag, err := language.Parse(s)
			if err != nil {
				return nil, err
			}
			return tag.String(), nil
		},
		apply: func(cfg *Config, v any) { cfg.Locale = v.(string) },
	},
	{
		Name: "format", Kind: KindString,
		Description: "Output format: auto, json, md, styled, quiet or count",
		validate: func(v any) (any, error) {
			switch v.(string) {
			case "auto", "json", "md", "markdown", "styled", "quiet", "count":
				return v, nil
			}
			return nil, fmt.Errorf("unknown format %q", v)
		},
		apply: func(cfg *Config, v any) { cfg.Format = v.(string) },
	},
	{
		Name: "history", Kind: KindBool,
		Description: "Record successfully parsed expressions",
		apply:       func(cfg *Config, v any) { cfg.History = v.(bool) },
	},
	{
		Name: "history_size", Kind: KindInt,
		Description: "Number of history entries kept",
		validate:    intRange(1, 1000),
		apply:       func(cfg *Config, v any) { cfg.HistorySize = v.(int) },
	},
	{
		Name: "cache_dir", Kind: KindString,
		Description: "Directory holding the history file",
		validate: func(v any) (any, error) {
			if v.(string) == "" {
				return nil, fmt.Errorf("must not be empty")
			}
			return v, nil
		},
		apply: func(cfg *Config, v any) { cfg.CacheDir = v.(string) },
	},
	{
		Name: "stats", Kind: KindBool,
		Description: "Print parse statistics after each command",
		apply:       func(cfg *Config, v any) { b := v.(bool); cfg.Stats = &b },
	},
	{
		Name: "verbose", Kind: KindInt,
		Description: "Trace level: 0, 1 or 2",
		validate:    intRange(0, 2),
		apply:       func(cfg *Config, v any) { n := v.(int); cfg.Verbose = &n },
	},
}

func intRange(lo, hi int) func(v any) (any, error) {
	return func(v any) (any, error) {
		n := v.(int)
		if n < lo || n > hi {
			return nil, fmt.Errorf("%d outside %d-%d", n, lo, hi)
		}
		return n, nil
	}
}

// Keys returns every known key in declaration order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// KeyNames returns the sorted key names.
func KeyNames() []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Name
	}
	sort.Strings(names)
	return names
}

// LookupKey finds a key by name.
func LookupKey(name string) (Key, bool) {
	for _, k := range keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// Parse converts a command-line or environment string to the key's type
// and validates it.
func (k Key) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	var v any
	switch k.Kind {
	case KindBool:
		b, ok := parseEnvBool(raw)
		if !ok {
			return nil, fmt.Errorf("%s must be true/false (or 1/0)", k.Name)
		}
		v = b
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", k.Name)
		}
		v = n
	default:
		v = raw
	}
	return k.check(v)
}

// coerce converts a decoded JSON value to the key's type.
func (k Key) coerce(raw any) (any, error) {
	var v any
	switch k.Kind {
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("want a boolean, got %T", raw)
		}
		v = b
	case KindInt:
		f, ok := raw.(float64)
		if !ok || f != float64(int(f)) {
			return nil, fmt.Errorf("want an integer, got %v", raw)
		}
		v = int(f)
	default:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("want a string, got %T", raw)
		}
		v = s
	}
	return k.check(v)
}

func (k Key) check(v any) (any, error) {
	if k.validate == nil {
		return v, nil
	}
	out, err := k.validate(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.Name, err)
	}
	return out, nil
}

// Value returns the key's current value in cfg, formatted for display, and
// whether it is set.
func (k Key) Value(cfg *Config) (string, bool) {
	switch k.Name {
	case "context":
		return cfg.Context, true
	case "ambiguous_time_range":
		return strconv.Itoa(cfg.AmbiguousTimeRange), true
	case "guess":
		return strconv.FormatBool(cfg.Guess), true
	case "compat":
		return strconv.FormatBool(cfg.Compat), true
	case "timezone":
		return cfg.Timezone, cfg.Timezone != ""
	case "locale":
		return cfg.Locale, cfg.Locale != ""
	case "format":
		return cfg.Format, true
	case "history":
		return strconv.FormatBool(cfg.History), true
	case "history_size":
		return strconv.Itoa(cfg.HistorySize), true
	case "cache_dir":
		return cfg.CacheDir, true
	case "stats":
		if cfg.Stats == nil {
			return "", false
		}
		return strconv.FormatBool(*cfg.Stats), true
	case "verbose":
		if cfg.Verbose == nil {
			return "", false
		}
		return strconv.Itoa(*cfg.Verbose), true
	}
	return "", false
}
