// Package span provides the half-open time interval produced by parsing.
package span

import (
	"fmt"
	"time"
)

// Span is the half-open interval [Begin, End).
type Span struct {
	Begin time.Time
	End   time.Time
}

// New returns the span [begin, end).
func New(begin, end time.Time) Span {
	return Span{Begin: begin, End: end}
}

// Instant returns the zero-width span at t.
func Instant(t time.Time) Span {
	return Span{Begin: t, End: t}
}

// Width returns the span's length in whole seconds.
func (s Span) Width() int64 {
	return int64(s.End.Sub(s.Begin) / time.Second)
}

// Add returns the span shifted by the given number of seconds.
func (s Span) Add(seconds int64) Span {
	d := time.Duration(seconds) * time.Second
	return Span{Begin: s.Begin.Add(d), End: s.End.Add(d)}
}

// AddDate returns the span with both ends shifted by calendar days, months
// and years. Both ends keep their wall-clock time across DST changes.
func (s Span) AddDate(years, months, days int) Span {
	return Span{Begin: s.Begin.AddDate(years, months, days), End: s.End.AddDate(years, months, days)}
}

// Contains reports whether t lies in [Begin, End).
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Begin) && t.Before(s.End)
}

// Covers reports whether t lies in the closed interval [Begin, End].
func (s Span) Covers(t time.Time) bool {
	return !t.Before(s.Begin) && !t.After(s.End)
}

// In returns the span with both ends converted to loc.
func (s Span) In(loc *time.Location) Span {
	return Span{Begin: s.Begin.In(loc), End: s.End.In(loc)}
}

// Equal reports whether both spans have the same ends.
func (s Span) Equal(o Span) bool {
	return s.Begin.Equal(o.Begin) && s.End.Equal(o.End)
}

func (s Span) String() string {
	return fmt.Sprintf("(%s..%s)", s.Begin.Format(time.DateTime), s.End.Format(time.DateTime))
}

// Guess returns a representative instant inside s. A whole calendar month
// yields noon on its 16th day whatever its length. Other spans wider than
// one second yield their midpoint, which is noon for a whole day; narrower
// spans yield Begin.
func Guess(s Span) time.Time {
	if isCalendarMonth(s) {
		y, m, _ := s.Begin.Date()
		return time.Date(y, m, 16, 12, 0, 0, 0, s.Begin.Location())
	}
	if w := s.Width(); w > 1 {
		return s.Begin.Add(time.Duration(w/2) * time.Second)
	}
	return s.Begin
}

func isCalendarMonth(s Span) bool {
	b := s.Begin
	if b.Day() != 1 || b.Hour() != 0 || b.Minute() != 0 || b.Second() != 0 || b.Nanosecond() != 0 {
		return false
	}
	return s.End.Equal(b.AddDate(0, 1, 0))
}
