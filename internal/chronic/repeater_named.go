package chronic

import (
	"fmt"
	"strings"
	"time"

	"github.com/basecamp/when/internal/span"
)

// DayName repeats one day of the week.
type DayName struct {
	Day time.Weekday
}

func (d DayName) Is(k Kind) bool { return k == KindRepeater || k == KindRepeaterDayName }
func (d DayName) String() string { return "repeater_day_name(" + strings.ToLower(d.Day.String()) + ")" }
func (DayName) tag()             {}
func (DayName) Width() int64     { return daySeconds }

func (d DayName) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	var date time.Time
	if c.moved {
		date = c.anchor.AddDate(0, 0, 7*dir)
	} else {
		date = midnight(c.now).AddDate(0, 0, dir)
		for date.Weekday() != d.Day {
			date = date.AddDate(0, 0, dir)
		}
	}
	return span.New(date, date.AddDate(0, 0, 1)), c.moveTo(date), nil
}

func (d DayName) This(c Cursor, p Pointer) (span.Span, error) {
	if p == None {
		p = Future
	}
	s, _, err := d.Next(c, p)
	return s, err
}

func (d DayName) Offset(span.Span, int, Pointer) (span.Span, error) {
	return span.Span{}, fmt.Errorf("%w: offset of %s", ErrUnsupported, d)
}

// MonthName repeats one month of the year.
type MonthName struct {
	Month time.Month

	// legacy resolves a Future occurrence requested during the named month
	// to the current month rather than next year's.
	legacy bool
}

func (m MonthName) Is(k Kind) bool { return k == KindRepeater || k == KindRepeaterMonthName }
func (m MonthName) String() string {
	return "repeater_month_name(" + strings.ToLower(m.Month.String()) + ")"
}
func (MonthName) tag()         {}
func (MonthName) Width() int64 { return monthSeconds }

// Next accepts None on the first call: the named month of this year unless
// it has already passed.
func (m MonthName) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	loc := c.now.Location()
	var start time.Time
	if c.moved {
		dir, err := direction(p)
		if err != nil {
			return span.Span{}, c, err
		}
		start = c.anchor.AddDate(dir, 0, 0)
	} else {
		year, current := c.now.Year(), c.now.Month()
		switch p {
		case Future:
			if current > m.Month || (current == m.Month && !m.legacy) {
				year++
			}
		case None:
			if current > m.Month {
				year++
			}
		case Past:
			if current < m.Month {
				year--
			}
		default:
			return span.Span{}, c, fmt.Errorf("%w: %s", ErrInvalidPointer, p)
		}
		start = time.Date(year, m.Month, 1, 0, 0, 0, 0, loc)
	}
	return span.New(start, start.AddDate(0, 1, 0)), c.moveTo(start), nil
}

func (m MonthName) This(c Cursor, p Pointer) (span.Span, error) {
	if p != Past {
		p = None
	}
	s, _, err := m.Next(c, p)
	return s, err
}

func (m MonthName) Offset(span.Span, int, Pointer) (span.Span, error) {
	return span.Span{}, fmt.Errorf("%w: offset of %s", ErrUnsupported, m)
}

// Portion names a part of the day.
type Portion int

const (
	PortionAM Portion = iota + 1
	PortionPM
	PortionMorning
	PortionAfternoon
	PortionEvening
	PortionNight
	PortionHalfDay
)

var portionNames = map[Portion]string{
	PortionAM:        "am",
	PortionPM:        "pm",
	PortionMorning:   "morning",
	PortionAfternoon: "afternoon",
	PortionEvening:   "evening",
	PortionNight:     "night",
}

// portionRanges are [begin, end) in seconds after midnight.
var portionRanges = map[Portion][2]int64{
	PortionAM:        {0, 12 * hourSeconds},
	PortionPM:        {12 * hourSeconds, 24 * hourSeconds},
	PortionMorning:   {6 * hourSeconds, 12 * hourSeconds},
	PortionAfternoon: {13 * hourSeconds, 17 * hourSeconds},
	PortionEvening:   {17 * hourSeconds, 20 * hourSeconds},
	PortionNight:     {20 * hourSeconds, 24 * hourSeconds},
}

// DayPortion repeats a fixed range of every day. A PortionHalfDay covers
// the twelve hours starting at Hour.
type DayPortion struct {
	Portion Portion
	Hour    int
}

func (d DayPortion) Is(k Kind) bool { return k == KindRepeater || k == KindRepeaterDayPortion }

func (d DayPortion) String() string {
	if d.Portion == PortionHalfDay {
		return fmt.Sprintf("repeater_day_portion(%d-%d)", d.Hour, d.Hour+12)
	}
	return "repeater_day_portion(" + portionNames[d.Portion] + ")"
}

func (DayPortion) tag() {}

func (d DayPortion) bounds() (int64, int64) {
	if d.Portion == PortionHalfDay {
		return int64(d.Hour) * hourSeconds, int64(d.Hour+12) * hourSeconds
	}
	r := portionRanges[d.Portion]
	return r[0], r[1]
}

func (d DayPortion) Width() int64 {
	begin, end := d.bounds()
	return end - begin
}

func (d DayPortion) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}
	begin, end := d.bounds()
	var start time.Time
	if c.moved {
		start = c.anchor.AddDate(0, 0, dir)
	} else {
		today := midnight(c.now)
		elapsed := int64(c.now.Sub(today) / time.Second)
		day := 0
		switch {
		case elapsed < begin:
			if p == Past {
				day = -1
			}
		case elapsed > end:
			if p == Future {
				day = 1
			}
		default:
			day = dir
		}
		start = today.AddDate(0, 0, day).Add(seconds(begin))
	}
	return span.New(start, start.Add(seconds(end-begin))), c.moveTo(start), nil
}

// This returns today's occurrence regardless of pointer.
func (d DayPortion) This(c Cursor, _ Pointer) (span.Span, error) {
	if err := c.check(); err != nil {
		return span.Span{}, err
	}
	begin, end := d.bounds()
	start := midnight(c.now).Add(seconds(begin))
	return span.New(start, start.Add(seconds(end-begin))), nil
}

func (d DayPortion) Offset(s span.Span, amount int, p Pointer) (span.Span, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, err
	}
	first, _, err := d.Next(NewCursor(s.Begin), p)
	if err != nil {
		return span.Span{}, err
	}
	return first.AddDate(0, 0, dir*(amount-1)), nil
}

// ClockTime repeats a time of day. An ambiguous clock time may be read as
// either AM or PM; its Seconds hold the AM reading.
type ClockTime struct {
	Seconds   int64
	Ambiguous bool

	// Hour is the hour as written, before folding 12 to 0.
	Hour int
}

// ParseClockTime reads H, HH, HMM, HHMM, HMMSS or HHMMSS, optionally split
// by ':' or '.'.
func ParseClockTime(word string) (ClockTime, error) {
	colon := strings.ContainsAny(word, ":.")
	digits := strings.NewReplacer(":", "", ".", "").Replace(word)
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ClockTime{}, fmt.Errorf("%w: %q is not numeric", ErrClockFormat, word)
		}
	}

	var h, m, s int
	var ambiguous bool
	switch len(digits) {
	case 1, 2:
		h = atoi(digits)
		ambiguous = h >= 1 && h <= 12
	case 3:
		h, m = atoi(digits[:1]), atoi(digits[1:3])
		ambiguous = h != 0
	case 4:
		h, m = atoi(digits[:2]), atoi(digits[2:4])
		ambiguous = colon && digits[0] != '0' && h <= 12
	case 5:
		h, m, s = atoi(digits[:1]), atoi(digits[1:3]), atoi(digits[3:5])
		ambiguous = h != 0
	case 6:
		h, m, s = atoi(digits[:2]), atoi(digits[2:4]), atoi(digits[4:6])
		ambiguous = colon && digits[0] != '0' && h <= 12
	default:
		return ClockTime{}, fmt.Errorf("%w: %q has more than 6 digits", ErrClockFormat, word)
	}

	if h > 24 || m > 59 || s > 59 || (h == 24 && m+s > 0) {
		return ClockTime{}, fmt.Errorf("%w: %q is out of range", ErrClockFormat, word)
	}

	written := h
	if ambiguous && h == 12 {
		h = 0
	}
	return ClockTime{
		Seconds:   int64(h)*hourSeconds + int64(m)*minuteSeconds + int64(s),
		Ambiguous: ambiguous,
		Hour:      written,
	}, nil
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func (t ClockTime) Is(k Kind) bool { return k == KindRepeater || k == KindRepeaterTime }

func (t ClockTime) String() string {
	h, m, s := t.Seconds/hourSeconds, t.Seconds%hourSeconds/minuteSeconds, t.Seconds%minuteSeconds
	flag := ""
	if t.Ambiguous {
		flag = "?"
	}
	return fmt.Sprintf("repeater_time(%02d:%02d:%02d%s)", h, m, s, flag)
}

func (ClockTime) tag()         {}
func (ClockTime) Width() int64 { return secondSeconds }

func (t ClockTime) Next(c Cursor, p Pointer) (span.Span, Cursor, error) {
	dir, err := direction(p)
	if err != nil {
		return span.Span{}, c, err
	}
	if err := c.check(); err != nil {
		return span.Span{}, c, err
	}

	var at time.Time
	if c.moved {
		step := 24 * time.Hour
		if t.Ambiguous {
			step = 12 * time.Hour
		}
		at = c.anchor.Add(time.Duration(dir) * step)
	} else {
		at = t.first(c.now, p)
	}
	return span.New(at, at.Add(time.Second)), c.moveTo(at), nil
}

// first picks the earliest candidate at or after now (Future) or the latest
// at or before now (Past).
func (t ClockTime) first(now time.Time, p Pointer) time.Time {
	today := midnight(now)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)
	tick := seconds(t.Seconds)
	half := 12 * time.Hour

	var candidates []time.Time
	switch {
	case p == Future && t.Ambiguous:
		candidates = []time.Time{today.Add(tick), today.Add(half + tick), tomorrow.Add(tick)}
	case p == Future:
		candidates = []time.Time{today.Add(tick), tomorrow.Add(tick)}
	case t.Ambiguous:
		candidates = []time.Time{today.Add(half + tick), today.Add(tick), yesterday.Add(half + tick)}
	default:
		candidates = []time.Time{today.Add(tick), yesterday.Add(tick)}
	}

	for _, at := range candidates {
		if (p == Future && !at.Before(now)) || (p == Past && !at.After(now)) {
			return at
		}
	}
	return candidates[len(candidates)-1]
}

func (t ClockTime) This(c Cursor, p Pointer) (span.Span, error) {
	if p == None {
		p = Future
	}
	s, _, err := t.Next(c, p)
	return s, err
}

func (t ClockTime) Offset(span.Span, int, Pointer) (span.Span, error) {
	return span.Span{}, fmt.Errorf("%w: offset of %s", ErrUnsupported, t)
}
