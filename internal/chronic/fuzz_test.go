package chronic

import (
	"testing"
)

// FuzzParse checks that arbitrary input never panics and that a match is
// never an inverted span.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"friday", "next monday at 12:01 am", "3 years ago", "may 27", "may 40",
		"2 weekends ago", "first day of next month", "3rd friday in august",
		"in 3 days", "tomorrow at noon", "midnight", "5:00 morning",
		"2006-08-16", "8/16/2006", "Wed Aug 16 14:00:00 2006",
		"twenty seven days from now", "a week ago", "tonight at 9",
		"", " ", ",", "-", "/", "at", "in", "next", "99999999", "12345678",
		"1st 2nd 3rd", "last last last", "0th day of next month",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		got, err := Parse(input, exact())
		if err != nil {
			return
		}
		if got != nil && got.End.Before(got.Begin) {
			t.Errorf("Parse(%q) = %s: end before begin", input, got)
		}
	})
}
