package chronic

import (
	"fmt"
	"time"

	"github.com/basecamp/when/internal/span"
)

// Widths in seconds. Month and year are nominal: their arithmetic is
// calendar based and the widths only order repeaters.
const (
	secondSeconds    = 1
	minuteSeconds    = 60
	hourSeconds      = 60 * minuteSeconds
	daySeconds       = 24 * hourSeconds
	weekendSeconds   = 2 * daySeconds
	weekSeconds      = 7 * daySeconds
	fortnightSeconds = 14 * daySeconds
	monthSeconds     = 30 * daySeconds
	yearSeconds      = 365 * daySeconds
)

// Repeater is a unit of time that can enumerate its occurrences.
//
// Next returns the first occurrence after (Future) or before (Past) the
// cursor's reference instant, then one unit further on each call with the
// cursor it returned. This returns the remainder of the current occurrence:
// from now to its end (Future), from its start to now (Past) or all of it
// (None). Offset shifts a span by amount units.
type Repeater interface {
	Tag
	Width() int64
	Next(c Cursor, p Pointer) (span.Span, Cursor, error)
	This(c Cursor, p Pointer) (span.Span, error)
	Offset(s span.Span, amount int, p Pointer) (span.Span, error)
}

// Cursor is the enumeration state of a repeater: a reference instant and,
// once Next has been called, the start of the last returned occurrence.
type Cursor struct {
	now    time.Time
	anchor time.Time
	moved  bool
}

// NewCursor returns an unmoved cursor at now.
func NewCursor(now time.Time) Cursor {
	return Cursor{now: now}
}

// Now returns the reference instant.
func (c Cursor) Now() time.Time { return c.now }

// Anchor returns the start of the last occurrence returned by Next.
func (c Cursor) Anchor() (time.Time, bool) { return c.anchor, c.moved }

func (c Cursor) check() error {
	if c.now.IsZero() {
		return ErrNoReference
	}
	return nil
}

func (c Cursor) moveTo(t time.Time) Cursor {
	c.anchor = t
	c.moved = true
	return c
}

// Unit identifies a plain unit-of-time repeater.
type Unit int

const (
	UnitSecond Unit = iota + 1
	UnitMinute
	UnitHour
	UnitDay
	UnitWeekend
	UnitWeek
	UnitFortnight
	UnitMonth
	UnitYear
)

var unitRepeaters = map[Unit]func() Repeater{
	UnitSecond:    func() Repeater { return Second{} },
	UnitMinute:    func() Repeater { return Minute{} },
	UnitHour:      func() Repeater { return Hour{} },
	UnitDay:       func() Repeater { return Day{} },
	UnitWeekend:   func() Repeater { return Weekend{} },
	UnitWeek:      func() Repeater { return Week{} },
	UnitFortnight: func() Repeater { return Fortnight{} },
	UnitMonth:     func() Repeater { return Month{} },
	UnitYear:      func() Repeater { return Year{} },
}

// NewUnit returns the repeater for u.
func NewUnit(u Unit) (Repeater, error) {
	ctor, ok := unitRepeaters[u]
	if !ok {
		return nil, fmt.Errorf("%w: unknown unit %d", ErrUnsupported, int(u))
	}
	return ctor(), nil
}

// Calendar helpers. All of them stay in t's location.

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func hourStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
}

func minuteStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func yearStart(year int, loc *time.Location) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonths moves t by n calendar months, clamping the day to the length of
// the target month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ny := y + total/12
	nm := total % 12
	if nm < 0 {
		nm += 12
		ny--
	}
	month := time.Month(nm + 1)
	if days := daysIn(ny, month); d > days {
		d = days
	}
	return time.Date(ny, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}
