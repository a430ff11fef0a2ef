// Package interval prints spans as ISO 8601 time intervals such as
// "2006-08-18T00:00:00Z/P1D".
package interval

import (
	"strconv"
	"strings"
	"time"

	"github.com/basecamp/when/internal/span"
)

// Format renders s as start/duration. The duration counts calendar years,
// months and days from Begin before falling back to clock units, so a
// whole month reads P1M regardless of its length.
func Format(s span.Span) string {
	return s.Begin.Format(time.RFC3339) + "/" + Between(s.Begin, s.End)
}

// Between returns the ISO 8601 duration from begin to end. end before
// begin yields a negative duration.
func Between(begin, end time.Time) string {
	if end.Before(begin) {
		return "-" + Between(end, begin)
	}

	var years, months, days int
	cur := begin
	for next := cur.AddDate(1, 0, 0); !next.After(end); next = cur.AddDate(1, 0, 0) {
		cur = next
		years++
	}
	for next := cur.AddDate(0, 1, 0); !next.After(end); next = cur.AddDate(0, 1, 0) {
		cur = next
		months++
	}
	for next := cur.AddDate(0, 0, 1); !next.After(end); next = cur.AddDate(0, 0, 1) {
		cur = next
		days++
	}

	return build(years, months, days, int64(end.Sub(cur)/time.Second))
}

// Period renders a duration in seconds as ISO 8601 text using days and
// clock units: 93600 is "P1DT2H".
func Period(seconds int64) string {
	if seconds < 0 {
		return "-" + Period(-seconds)
	}
	days := seconds / 86400
	return build(0, 0, int(days), seconds%86400)
}

func build(years, months, days int, seconds int64) string {
	var b strings.Builder
	b.WriteByte('P')
	writePart(&b, int64(years), 'Y')
	writePart(&b, int64(months), 'M')
	writePart(&b, int64(days), 'D')

	h, m, sec := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 || m > 0 || sec > 0 {
		b.WriteByte('T')
		writePart(&b, h, 'H')
		writePart(&b, m, 'M')
		writePart(&b, sec, 'S')
	}
	if b.Len() == 1 {
		return "PT0S"
	}
	return b.String()
}

func writePart(b *strings.Builder, n int64, designator byte) {
	if n == 0 {
		return
	}
	b.WriteString(strconv.FormatInt(n, 10))
	b.WriteByte(designator)
}
