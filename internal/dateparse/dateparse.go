// Package dateparse resolves date expressions to calendar dates in
// YYYY-MM-DD form. A few shorthands used in task trackers are handled
// directly; everything else goes through the chronic parser.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/basecamp/when/internal/chronic"
)

// ParseFrom resolves input relative to now and returns its date in
// YYYY-MM-DD form. Shorthands:
//   - next week, nextweek, next month, nextmonth (calendar shift)
//   - eow, end of week (Friday)
//   - eom, end of month
//   - +N (N days from now)
//   - YYYY-MM-DD (passthrough)
//
// Anything else ("friday", "in 3 days", "first day of next month") is
// resolved by chronic and the guessed instant's date is returned. The
// boolean is false for unrecognized input.
func ParseFrom(input string, now time.Time, context chronic.Pointer) (string, bool) {
	t, ok := Resolve(input, now, context)
	if !ok {
		return "", false
	}
	return formatDate(t), true
}

// Resolve returns the instant input denotes and whether it was recognized.
// Context is the direction used for bare expressions such as "may 27".
func Resolve(input string, now time.Time, context chronic.Pointer) (time.Time, bool) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "":
		return time.Time{}, false
	case "next week", "nextweek":
		return now.AddDate(0, 0, 7), true
	case "next month", "nextmonth":
		return now.AddDate(0, 1, 0), true
	case "end of week", "eow":
		return endOfWeek(now), true
	case "end of month", "eom":
		return endOfMonth(now), true
	}

	// +N days format
	if strings.HasPrefix(input, "+") {
		if days, err := strconv.Atoi(input[1:]); err == nil {
			return now.AddDate(0, 0, days), true
		}
	}

	// YYYY-MM-DD passthrough
	if datePattern.MatchString(input) {
		if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
			return t, true
		}
	}

	opts := chronic.DefaultOptions()
	opts.Now = now
	opts.Context = context
	s, err := chronic.Parse(input, opts)
	if err != nil || s == nil {
		return time.Time{}, false
	}
	return s.Begin, true
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// endOfWeek returns the coming Friday, or a week from today on a Friday.
func endOfWeek(now time.Time) time.Time {
	days := int(time.Friday - now.Weekday())
	if days <= 0 {
		days += 7
	}
	return now.AddDate(0, 0, days)
}

// endOfMonth returns the last day of the current month.
func endOfMonth(now time.Time) time.Time {
	year, month, _ := now.Date()
	firstOfNextMonth := time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location())
	return firstOfNextMonth.AddDate(0, 0, -1)
}
