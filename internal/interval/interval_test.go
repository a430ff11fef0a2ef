package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/basecamp/when/internal/span"
)

func date(y int, m time.Month, d, h, min, s int) time.Time {
	return time.Date(y, m, d, h, min, s, 0, time.UTC)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		span     span.Span
		expected string
	}{
		{"day", span.New(date(2006, 8, 18, 0, 0, 0), date(2006, 8, 19, 0, 0, 0)), "2006-08-18T00:00:00Z/P1D"},
		{"hour", span.New(date(2006, 8, 16, 17, 0, 0), date(2006, 8, 16, 18, 0, 0)), "2006-08-16T17:00:00Z/PT1H"},
		{"instant", span.Instant(date(2006, 8, 16, 14, 0, 0)), "2006-08-16T14:00:00Z/PT0S"},
		{"second", span.New(date(2006, 8, 16, 14, 0, 0), date(2006, 8, 16, 14, 0, 1)), "2006-08-16T14:00:00Z/PT1S"},
		{"week", span.New(date(2006, 8, 20, 0, 0, 0), date(2006, 8, 27, 0, 0, 0)), "2006-08-20T00:00:00Z/P7D"},
		{"february", span.New(date(2006, 2, 1, 0, 0, 0), date(2006, 3, 1, 0, 0, 0)), "2006-02-01T00:00:00Z/P1M"},
		{"august", span.New(date(2006, 8, 1, 0, 0, 0), date(2006, 9, 1, 0, 0, 0)), "2006-08-01T00:00:00Z/P1M"},
		{"year", span.New(date(2007, 1, 1, 0, 0, 0), date(2008, 1, 1, 0, 0, 0)), "2007-01-01T00:00:00Z/P1Y"},
		{"rest of day", span.New(date(2006, 8, 16, 14, 0, 1), date(2006, 8, 17, 0, 0, 0)), "2006-08-16T14:00:01Z/PT9H59M59S"},
		{"mixed", span.New(date(2006, 8, 16, 14, 0, 0), date(2007, 10, 18, 16, 30, 0)), "2006-08-16T14:00:00Z/P1Y2M2DT2H30M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.span))
		})
	}
}

func TestFormatKeepsOffset(t *testing.T) {
	pdt := time.FixedZone("PDT", -7*3600)
	s := span.New(time.Date(2006, 8, 16, 0, 0, 0, 0, pdt), time.Date(2006, 8, 17, 0, 0, 0, 0, pdt))
	assert.Equal(t, "2006-08-16T00:00:00-07:00/P1D", Format(s))
}

func TestBetweenNegative(t *testing.T) {
	assert.Equal(t, "-P1D", Between(date(2006, 8, 17, 0, 0, 0), date(2006, 8, 16, 0, 0, 0)))
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "PT0S"},
		{1, "PT1S"},
		{60, "PT1M"},
		{3600, "PT1H"},
		{86400, "P1D"},
		{93600, "P1DT2H"},
		{90061, "P1DT1H1M1S"},
		{7 * 86400, "P7D"},
		{-3600, "-PT1H"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Period(tt.seconds))
		})
	}
}
