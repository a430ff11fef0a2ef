package dateparse

import (
	"testing"
	"time"

	"github.com/basecamp/when/internal/chronic"
)

// Wednesday
var benchTime = time.Date(2024, 6, 12, 10, 30, 0, 0, time.UTC)

// BenchmarkParseFrom covers each path: shorthands, ISO dates, the chronic
// fallback and unrecognized passthrough.
func BenchmarkParseFrom(b *testing.B) {
	cases := []struct{ name, input string }{
		{"shorthand/eow", "eow"},
		{"shorthand/eom", "eom"},
		{"shorthand/plus_days", "+5"},
		{"shorthand/next_week", "next week"},
		{"iso", "2024-12-31"},
		{"chronic/anchor", "tomorrow"},
		{"chronic/weekday", "next friday"},
		{"chronic/arrow", "in 2 weeks"},
		{"chronic/narrow", "first day of next month"},
		{"passthrough", "some random text"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			for b.Loop() {
				ParseFrom(c.input, benchTime, chronic.Future)
			}
		})
	}
}

func BenchmarkResolvePast(b *testing.B) {
	for b.Loop() {
		Resolve("may 27", benchTime, chronic.Past)
	}
}

func BenchmarkEndOfMonth(b *testing.B) {
	for _, m := range []time.Month{time.January, time.February, time.April, time.December} {
		t := time.Date(2024, m, 15, 0, 0, 0, 0, time.UTC)
		b.Run(m.String(), func(b *testing.B) {
			for b.Loop() {
				endOfMonth(t)
			}
		})
	}
}
