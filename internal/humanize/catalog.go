package humanize

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// Forms holds the singular and plural spelling of a unit.
type Forms struct {
	One   string `yaml:"one"`
	Other string `yaml:"other"`
}

// Table is one locale's phrasing. Future and Past wrap "{n}", the counted
// unit.
type Table struct {
	Locale string           `yaml:"locale"`
	Now    string           `yaml:"now"`
	Future string           `yaml:"future"`
	Past   string           `yaml:"past"`
	Units  map[string]Forms `yaml:"units"`
}

func (t *Table) unit(name string, n int64) string {
	f := t.Units[name]
	if n == 1 {
		return f.One
	}
	return f.Other
}

func (t *Table) validate() error {
	if t.Locale == "" {
		return fmt.Errorf("missing locale")
	}
	if !strings.Contains(t.Future, "{n}") || !strings.Contains(t.Past, "{n}") {
		return fmt.Errorf("%s: future and past must contain {n}", t.Locale)
	}
	for _, u := range units {
		f, ok := t.Units[u.name]
		if !ok || f.One == "" || f.Other == "" {
			return fmt.Errorf("%s: unit %q is incomplete", t.Locale, u.name)
		}
	}
	return nil
}

// catalog is the singleton table registry.
var catalog = &Catalog{}

// Catalog holds the embedded locale tables.
type Catalog struct {
	once    sync.Once
	tables  map[string]*Table
	tags    []language.Tag
	matcher language.Matcher
	loadErr error
}

func (c *Catalog) load() {
	c.once.Do(func() {
		c.tables = make(map[string]*Table)

		entries, err := localesFS.ReadDir("locales")
		if err != nil {
			c.loadErr = fmt.Errorf("reading locales dir: %w", err)
			return
		}

		var names []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := localesFS.ReadFile("locales/" + entry.Name())
			if err != nil {
				c.loadErr = fmt.Errorf("reading %s: %w", entry.Name(), err)
				return
			}
			table := new(Table)
			if err := yaml.Unmarshal(data, table); err != nil {
				c.loadErr = fmt.Errorf("parsing %s: %w", entry.Name(), err)
				return
			}
			if err := table.validate(); err != nil {
				c.loadErr = fmt.Errorf("%s: %w", entry.Name(), err)
				return
			}
			c.tables[table.Locale] = table
			names = append(names, table.Locale)
		}

		// English first: the matcher falls back to its first tag.
		sort.Slice(names, func(i, j int) bool {
			if names[i] == "en" || names[j] == "en" {
				return names[i] == "en"
			}
			return names[i] < names[j]
		})
		for _, n := range names {
			c.tags = append(c.tags, language.Make(n))
		}
		c.matcher = language.NewMatcher(c.tags)
	})
}

// lookup returns the table best matching tag, falling back to English.
func (c *Catalog) lookup(tag language.Tag) (*Table, error) {
	c.load()
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return c.tables["en"], nil
	}
	base, _ := c.tags[idx].Base()
	return c.tables[base.String()], nil
}

// Locales lists the embedded locales, English first.
func Locales() []string {
	catalog.load()
	out := make([]string, 0, len(catalog.tags))
	for _, t := range catalog.tags {
		out = append(out, t.String())
	}
	return out
}
