package humanize

import (
	"strings"
	"time"
)

type unit struct {
	name string
	size time.Duration
}

// units run largest first. Months and years use their average lengths.
var units = []unit{
	{"year", 365 * 24 * time.Hour},
	{"month", 30 * 24 * time.Hour},
	{"week", 7 * 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

// Formatter renders relative phrases for one locale.
type Formatter struct {
	locale Locale
	table  *Table
}

// New returns a formatter for locale. Languages without a table use
// English phrasing with the locale's number formatting.
func New(locale Locale) (*Formatter, error) {
	table, err := catalog.lookup(locale.Tag())
	if err != nil {
		return nil, err
	}
	return &Formatter{locale: locale, table: table}, nil
}

// Locale returns the formatter's locale.
func (f *Formatter) Locale() Locale {
	return f.locale
}

// Language returns the locale of the phrase table in use.
func (f *Formatter) Language() string {
	return f.table.Locale
}

// Relative describes to as seen from from, counting the largest whole
// unit: "in 2 days", "3 hours ago". Differences under a second read as
// the locale's "now".
func (f *Formatter) Relative(from, to time.Time) string {
	d := to.Sub(from)
	future := d > 0
	if d < 0 {
		d = -d
	}

	for _, u := range units {
		if d < u.size {
			continue
		}
		n := int64(d / u.size)
		counted := f.locale.FormatNumber(n) + " " + f.table.unit(u.name, n)
		if future {
			return strings.Replace(f.table.Future, "{n}", counted, 1)
		}
		return strings.Replace(f.table.Past, "{n}", counted, 1)
	}
	return f.table.Now
}

// Date formats t in the locale's date order.
func (f *Formatter) Date(t time.Time) string {
	return f.locale.FormatDate(t)
}
