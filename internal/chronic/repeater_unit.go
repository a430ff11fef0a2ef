package chronic

import (
	"fmt"
	"time"

	"github.com/basecamp/when/internal/span"
)

// unit is embedded by the plain unit repeaters.
type unit struct{}

func (unit) Is(k Kind) bool { return k == KindRepeater }
func (unit) tag()           {}

// Year repeats calendar years.
type Year struct{ unit }

func (Year) String() string { return "repeater(year)" }
func (Year) Width() int64   { return yearSeconds }

func (Year) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	base := c.now.Year()
	if c.moved {
		base = c.anchor.Year()
	}
	start := yearStart(base+dir, c.now.Location())
	return span.New(start, start.AddDate(1, 0, 0)), c.moveTo(start), nil
}

func (Year) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	now, loc := c.now, c.now.Location()
	switch p {
	case Future:
		return span.New(midnight(now).AddDate(0, 0, 1), yearStart(now.Year()+1, loc)), nil
	case Past:
		return span.New(yearStart(now.Year(), loc), midnight(now)), nil
	case None:
		return span.New(yearStart(now.Year(), loc), yearStart(now.Year()+1, loc)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Year) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	months := 12 * amount * dir
	return span.New(addMonths(s.Begin, months), addMonths(s.End, months)), nil
}

// Month repeats calendar months.
type Month struct{ unit }

func (Month) String() string { return "repeater(month)" }
func (Month) Width() int64   { return monthSeconds }

func (Month) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	base := monthStart(c.now)
	if c.moved {
		base = c.anchor
	}
	start := addMonths(base, dir)
	return span.New(start, addMonths(start, 1)), c.moveTo(start), nil
}

func (Month) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	now := c.now
	switch p {
	case Future:
		return span.New(midnight(now).AddDate(0, 0, 1), addMonths(monthStart(now), 1)), nil
	case Past:
		return span.New(monthStart(now), midnight(now)), nil
	case None:
		return span.New(monthStart(now), addMonths(monthStart(now), 1)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Month) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	return span.New(addMonths(s.Begin, amount*dir), addMonths(s.End, amount*dir)), nil
}

// sunday walks Sundays from now. It backs Week and Fortnight.
var sunday = DayName{Day: time.Sunday}

// lastSundays returns the start of the n-th Sunday on or before now's date.
func lastSundays(now time.Time, n int) (time.Time, error) {
	c := NewCursor(now.AddDate(0, 0, 1))
	var s span.Span
	var err error
	for i := 0; i < n; i++ {
		if s, c, err = sunday.Next(c, Past); err != nil {
			return time.Time{}, err
		}
	}
	return s.Begin, nil
}

// nextSundays returns the start of the n-th Sunday after now's date.
func nextSundays(now time.Time, n int) (time.Time, error) {
	c := NewCursor(now)
	var s span.Span
	var err error
	for i := 0; i < n; i++ {
		if s, c, err = sunday.Next(c, Future); err != nil {
			return time.Time{}, err
		}
	}
	return s.Begin, nil
}

// Week repeats Sunday-based weeks.
type Week struct{ unit }

func (Week) String() string { return "repeater(week)" }
func (Week) Width() int64   { return weekSeconds }

func (Week) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	var start time.Time
	switch {
	case c.moved:
		start = c.anchor.AddDate(0, 0, 7*dir)
	case p == Future:
		start, err = nextSundays(c.now, 1)
	default:
		start, err = lastSundays(c.now, 2)
	}
	if err != nil {
		return span.Span{}, c, err
	}
	return span.New(start, start.AddDate(0, 0, 7)), c.moveTo(start), nil
}

func (Week) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	switch p {
	case Future:
		end, err := nextSundays(c.now, 1)
		if err != nil {
			return span.Span{}, err
		}
		return span.New(hourStart(c.now).Add(time.Hour), end), nil
	case Past:
		begin, err := lastSundays(c.now, 1)
		if err != nil {
			return span.Span{}, err
		}
		return span.New(begin, hourStart(c.now)), nil
	case None:
		begin, err := lastSundays(c.now, 1)
		if err != nil {
			return span.Span{}, err
		}
		return span.New(begin, begin.AddDate(0, 0, 7)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Week) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	return s.AddDate(0, 0, 7*amount*dir), nil
}

// Fortnight repeats two-week periods starting on Sunday.
type Fortnight struct{ unit }

func (Fortnight) String() string { return "repeater(fortnight)" }
func (Fortnight) Width() int64   { return fortnightSeconds }

func (Fortnight) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	var start time.Time
	switch {
	case c.moved:
		start = c.anchor.AddDate(0, 0, 14*dir)
	case p == Future:
		start, err = nextSundays(c.now, 1)
	default:
		start, err = lastSundays(c.now, 3)
	}
	if err != nil {
		return span.Span{}, c, err
	}
	return span.New(start, start.AddDate(0, 0, 14)), c.moveTo(start), nil
}

func (Fortnight) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	switch p {
	case Future, None:
		end, err := nextSundays(c.now, 2)
		if err != nil {
			return span.Span{}, err
		}
		return span.New(hourStart(c.now).Add(time.Hour), end), nil
	case Past:
		begin, err := lastSundays(c.now, 1)
		if err != nil {
			return span.Span{}, err
		}
		return span.New(begin, hourStart(c.now)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Fortnight) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	return s.AddDate(0, 0, 14*amount*dir), nil
}

// saturday walks Saturdays from now. It backs Weekend.
var saturday = DayName{Day: time.Saturday}

// Weekend repeats Saturday and Sunday.
type Weekend struct{ unit }

func (Weekend) String() string { return "repeater(weekend)" }
func (Weekend) Width() int64   { return weekendSeconds }

func (Weekend) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	var start time.Time
	switch {
	case c.moved:
		start = c.anchor.AddDate(0, 0, 7*dir)
	case p == Future:
		s, _, err := saturday.Next(NewCursor(c.now), Future)
		if err != nil {
			return span.Span{}, c, err
		}
		start = s.Begin
	default:
		// The weekend in progress has not ended yet.
		s, _, err := saturday.Next(NewCursor(c.now.AddDate(0, 0, -1)), Past)
		if err != nil {
			return span.Span{}, c, err
		}
		start = s.Begin
	}
	return span.New(start, start.AddDate(0, 0, 2)), c.moveTo(start), nil
}

func (Weekend) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	switch p {
	case Future, None, Past:
		s, err := saturday.This(NewCursor(c.now), p)
		if err != nil {
			return span.Span{}, err
		}
		return span.New(s.Begin, s.Begin.AddDate(0, 0, 2)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

// Offset moves s to the amount-th weekend in direction p, keeping its width.
func (w Weekend) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	first, _, err := w.Next(NewCursor(s.Begin), p)
	if err != nil {
		return span.Span{}, err
	}
	start := first.Begin.AddDate(0, 0, 7*(amount-1)*dir)
	return span.New(start, start.Add(s.End.Sub(s.Begin))), nil
}

// Day repeats calendar days.
type Day struct{ unit }

func (Day) String() string { return "repeater(day)" }
func (Day) Width() int64   { return daySeconds }

func (Day) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	base := midnight(c.now)
	if c.moved {
		base = c.anchor
	}
	start := base.AddDate(0, 0, dir)
	return span.New(start, start.AddDate(0, 0, 1)), c.moveTo(start), nil
}

func (Day) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	now := c.now
	switch p {
	case Future:
		return span.New(hourStart(now), midnight(now).AddDate(0, 0, 1)), nil
	case Past:
		return span.New(midnight(now), hourStart(now)), nil
	case None:
		return span.New(midnight(now), midnight(now).AddDate(0, 0, 1)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Day) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	return s.AddDate(0, 0, amount*dir), nil
}

// Hour repeats clock hours.
type Hour struct{ unit }

func (Hour) String() string { return "repeater(hour)" }
func (Hour) Width() int64   { return hourSeconds }

func (Hour) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	return fixedNext(c, p, hourStart, time.Hour)
}

func (Hour) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	now := c.now
	switch p {
	case Future:
		return span.New(minuteStart(now).Add(time.Minute), hourStart(now).Add(time.Hour)), nil
	case Past:
		return span.New(hourStart(now), minuteStart(now)), nil
	case None:
		return span.New(hourStart(now), hourStart(now).Add(time.Hour)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Hour) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	return fixedOffset(s, amount, p, hourSeconds)
}

// Minute repeats clock minutes.
type Minute struct{ unit }

func (Minute) String() string { return "repeater(minute)" }
func (Minute) Width() int64   { return minuteSeconds }

func (Minute) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	return fixedNext(c, p, minuteStart, time.Minute)
}

func (Minute) This(c Cursor, p Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	now := c.now
	switch p {
	case Future:
		return span.New(now, minuteStart(now).Add(time.Minute)), nil
	case Past:
		return span.New(minuteStart(now), now), nil
	case None:
		return span.New(minuteStart(now), minuteStart(now).Add(time.Minute)), nil
	}
	return span.Span{}, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
}

func (Minute) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	return fixedOffset(s, amount, p, minuteSeconds)
}

// Second repeats seconds.
type Second struct{ unit }

func (Second) String() string { return "repeater(second)" }
func (Second) Width() int64   { return secondSeconds }

func (Second) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	return fixedNext(c, p, func(t time.Time) time.Time { return t }, time.Second)
}

func (Second) This(c Cursor, _ Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	return span.New(c.now, c.now.Add(time.Second)), nil
}

func (Second) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	return fixedOffset(s, amount, p, secondSeconds)
}

// fixedNext steps a fixed-duration unit. The first occurrence is the unit
// adjacent to the one containing now.
func fixedNext(c Cursor, p Pointer, truncate func(time.Time) time.Time, width time.Duration) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	base := truncate(c.now)
	if c.moved {
		base = c.anchor
	}
	start := base.Add(time.Duration(dir) * width)
	return span.New(start, start.Add(width)), c.moveTo(start), nil
}

func fixedOffset(s span.Span, amount int, p Pointer, width int64) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	return s.Add(int64(amount*dir) * width), nil
}
