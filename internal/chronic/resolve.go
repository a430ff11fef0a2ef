package chronic

import (
	"errors"
	"sort"
	"time"

	"github.com/basecamp/when/internal/span"
)

// resolver turns matched tokens into a span relative to now.
type resolver struct {
	now  time.Time
	opts Options
}

func (r *resolver) loc() *time.Location { return r.now.Location() }

// Date handlers.

func (r *resolver) rmnSd(tokens []*Token) (*span.Span, error) {
	month, _ := tagOf[MonthName](tokens[0])
	day, _ := scalarOf(tokens[1], ScalarDay)
	return r.monthDay(month, day, tokens[2:])
}

func (r *resolver) rmnOd(tokens []*Token) (*span.Span, error) {
	month, _ := tagOf[MonthName](tokens[0])
	day, _ := ordinalOf(tokens[1], true)
	return r.monthDay(month, day, tokens[2:])
}

func (r *resolver) rdnRmnSd(tokens []*Token) (*span.Span, error) {
	return r.rmnSd(tokens[1:])
}

func (r *resolver) rdnRmnOd(tokens []*Token) (*span.Span, error) {
	return r.rmnOd(tokens[1:])
}

func (r *resolver) sdRmn(tokens []*Token) (*span.Span, error) {
	return r.rmnSd(swap(tokens, 0, 1))
}

func (r *resolver) odRmn(tokens []*Token) (*span.Span, error) {
	return r.rmnOd(swap(tokens, 0, 1))
}

// rmnSdOn handles "5pm on may 27": the clock tokens come first.
func (r *resolver) rmnSdOn(tokens []*Token) (*span.Span, error) {
	n := len(tokens)
	month, _ := tagOf[MonthName](tokens[n-2])
	day, _ := scalarOf(tokens[n-1], ScalarDay)
	return r.monthDay(month, day, tokens[:n-2])
}

func (r *resolver) rmnOdOn(tokens []*Token) (*span.Span, error) {
	n := len(tokens)
	month, _ := tagOf[MonthName](tokens[n-2])
	day, _ := ordinalOf(tokens[n-1], true)
	return r.monthDay(month, day, tokens[:n-2])
}

func (r *resolver) rmnSdSy(tokens []*Token) (*span.Span, error) {
	month, _ := tagOf[MonthName](tokens[0])
	day, _ := scalarOf(tokens[1], ScalarDay)
	year, _ := scalarOf(tokens[2], ScalarYear)
	return r.yearMonthDay(year, month.Month, day, tokens[3:])
}

func (r *resolver) rmnOdSy(tokens []*Token) (*span.Span, error) {
	month, _ := tagOf[MonthName](tokens[0])
	day, _ := ordinalOf(tokens[1], true)
	year, _ := scalarOf(tokens[2], ScalarYear)
	return r.yearMonthDay(year, month.Month, day, tokens[3:])
}

func (r *resolver) sdRmnSy(tokens []*Token) (*span.Span, error) {
	return r.rmnSdSy(swap(tokens, 0, 1))
}

func (r *resolver) odRmnSy(tokens []*Token) (*span.Span, error) {
	return r.rmnOdSy(swap(tokens, 0, 1))
}

func (r *resolver) rdnRmnSdSy(tokens []*Token) (*span.Span, error) {
	return r.rmnSdSy(tokens[1:])
}

// rdnRmnSdTSy handles the layout of time.UnixDate and ctime(3):
// "wed aug 16 14:00:00 2006". The clock is read as 24-hour time.
func (r *resolver) rdnRmnSdTSy(tokens []*Token) (*span.Span, error) {
	month, _ := tagOf[MonthName](tokens[1])
	day, _ := scalarOf(tokens[2], ScalarDay)
	clock, _ := tagOf[ClockTime](tokens[3])
	year, _ := scalarOf(tokens[4], ScalarYear)
	if !validDate(year, month.Month, day) {
		return nil, nil
	}
	offset := clock.Seconds
	if clock.Ambiguous && clock.Hour == 12 {
		offset += 12 * hourSeconds
	}
	at := time.Date(year, month.Month, day, 0, 0, 0, 0, r.loc()).Add(seconds(offset))
	s := span.New(at, at.Add(time.Second))
	return &s, nil
}

func (r *resolver) rmnSy(tokens []*Token) (*span.Span, error) {
	month, _ := tagOf[MonthName](tokens[0])
	year, _ := scalarOf(tokens[1], ScalarYear)
	return r.wholeMonth(year, month.Month)
}

func (r *resolver) smSy(tokens []*Token) (*span.Span, error) {
	month, _ := scalarOf(tokens[0], ScalarMonth)
	year, _ := scalarOf(tokens[1], ScalarYear)
	return r.wholeMonth(year, time.Month(month))
}

func (r *resolver) smSdSy(tokens []*Token) (*span.Span, error) {
	month, _ := scalarOf(tokens[0], ScalarMonth)
	day, _ := scalarOf(tokens[1], ScalarDay)
	year, _ := scalarOf(tokens[2], ScalarYear)
	return r.yearMonthDay(year, time.Month(month), day, tokens[3:])
}

func (r *resolver) sdSmSy(tokens []*Token) (*span.Span, error) {
	return r.smSdSy(swap(tokens, 0, 1))
}

func (r *resolver) sySmSd(tokens []*Token) (*span.Span, error) {
	reordered := append([]*Token{tokens[1], tokens[2], tokens[0]}, tokens[3:]...)
	return r.smSdSy(reordered)
}

func (r *resolver) wholeMonth(year int, month time.Month) (*span.Span, error) {
	if month < time.January || month > time.December {
		return nil, nil
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, r.loc())
	s := span.New(start, start.AddDate(0, 1, 0))
	return &s, nil
}

// monthDay resolves a month name and day in the year the context points
// to, then narrows to any trailing clock tokens.
func (r *resolver) monthDay(month MonthName, day int, timeTokens []*Token) (*span.Span, error) {
	s, err := month.This(NewCursor(r.now), r.opts.Context)
	if err != nil {
		return nil, err
	}
	year := s.Begin.Year()
	if !validDate(year, month.Month, day) {
		return nil, nil
	}
	start := time.Date(year, month.Month, day, 0, 0, 0, 0, r.loc())
	if r.opts.Context == Future && start.Before(midnight(r.now)) {
		year++
		if !validDate(year, month.Month, day) {
			return nil, nil
		}
		start = time.Date(year, month.Month, day, 0, 0, 0, 0, r.loc())
	}
	return r.dayOrTime(start, timeTokens)
}

func (r *resolver) yearMonthDay(year int, month time.Month, day int, timeTokens []*Token) (*span.Span, error) {
	if !validDate(year, month, day) {
		return nil, nil
	}
	return r.dayOrTime(time.Date(year, month, day, 0, 0, 0, 0, r.loc()), timeTokens)
}

// dayOrTime returns the whole day, or the clock time within it.
func (r *resolver) dayOrTime(dayStart time.Time, timeTokens []*Token) (*span.Span, error) {
	if len(timeTokens) == 0 {
		s := span.New(dayStart, dayStart.AddDate(0, 0, 1))
		return &s, nil
	}
	inner := &resolver{now: dayStart, opts: r.opts}
	inner.opts.Context = Future
	return inner.getAnchor(timeTokens)
}

func validDate(year int, month time.Month, day int) bool {
	return month >= time.January && month <= time.December && day >= 1 && day <= daysIn(year, month)
}

// Anchor handlers.

func (r *resolver) anchor(tokens []*Token) (*span.Span, error) {
	return r.getAnchor(tokens)
}

// rgr handles "friday this week" by moving the grabber to the front.
func (r *resolver) rgr(tokens []*Token) (*span.Span, error) {
	return r.anchor([]*Token{tokens[1], tokens[0], tokens[2]})
}

// getAnchor resolves the widest repeater with the grabber and then narrows
// through the remaining repeaters, widest first.
func (r *resolver) getAnchor(tokens []*Token) (*span.Span, error) {
	tokens = r.dealias(tokens)
	grabber := GrabThis
	if len(tokens) > 0 {
		if g, ok := tagOf[Grabber](tokens[0]); ok {
			grabber = g
		}
	}

	var repeaters []Repeater
	for _, tok := range tokens {
		if rep, ok := tagOf[Repeater](tok); ok {
			repeaters = append(repeaters, rep)
		}
	}
	if len(repeaters) == 0 {
		return nil, nil
	}
	sort.SliceStable(repeaters, func(i, j int) bool {
		return repeaters[i].Width() > repeaters[j].Width()
	})

	head, rest := repeaters[0], repeaters[1:]
	cursor := NewCursor(r.now)
	var outer span.Span
	var err error
	switch grabber {
	case GrabLast:
		outer, _, err = head.Next(cursor, Past)
	case GrabNext:
		outer, _, err = head.Next(cursor, Future)
	default:
		context := r.opts.Context
		if context != Past && len(rest) > 0 {
			context = None
		}
		outer, err = head.This(cursor, context)
	}
	if err != nil {
		return nil, err
	}
	return findWithin(rest, outer)
}

// findWithin narrows s through each repeater's occurrence that starts in
// it. Nil means some repeater has no occurrence inside s.
func findWithin(repeaters []Repeater, s span.Span) (*span.Span, error) {
	for _, rep := range repeaters {
		inner, err := rep.This(NewCursor(s.Begin), None)
		if err != nil {
			return nil, err
		}
		if !s.Covers(inner.Begin) && !s.Covers(inner.End) {
			return nil, nil
		}
		s = inner
	}
	return &s, nil
}

// dealias rewrites loose day portions next to a clock time into am or pm
// and appends the ambiguous-time window after bare clock times.
func (r *resolver) dealias(tokens []*Token) []*Token {
	if r.opts.Compatibility {
		dealiasFirst(tokens)
	} else {
		dealiasAdjacent(tokens)
	}
	if r.opts.AmbiguousTimeRange == 0 {
		return tokens
	}

	out := make([]*Token, 0, len(tokens)+1)
	for i, tok := range tokens {
		out = append(out, tok)
		t, ok := tagOf[ClockTime](tok)
		if !ok || !t.Ambiguous {
			continue
		}
		if i+1 < len(tokens) && tokens[i+1].Has(KindRepeaterDayPortion) {
			continue
		}
		if i > 0 && tokens[i-1].Has(KindRepeaterDayPortion) {
			continue
		}
		window := &Token{Word: "disambiguator"}
		window.Tag(DayPortion{Portion: PortionHalfDay, Hour: r.opts.AmbiguousTimeRange})
		out = append(out, window)
	}
	return out
}

func dealiasAdjacent(tokens []*Token) {
	for i, tok := range tokens {
		if _, ok := tagOf[DayPortion](tok); !ok {
			continue
		}
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= len(tokens) {
				continue
			}
			if t, ok := tagOf[ClockTime](tokens[j]); ok && t.Hour <= 12 {
				narrowPortion(tok)
				break
			}
		}
	}
}

// dealiasFirst pairs the first day portion with the first clock time
// wherever they appear.
func dealiasFirst(tokens []*Token) {
	var portion *Token
	var clock bool
	for _, tok := range tokens {
		if portion == nil && tok.Has(KindRepeaterDayPortion) {
			portion = tok
		}
		if tok.Has(KindRepeaterTime) {
			clock = true
		}
	}
	if portion != nil && clock {
		narrowPortion(portion)
	}
}

func narrowPortion(tok *Token) {
	p, _ := tagOf[DayPortion](tok)
	var narrowed Portion
	switch p.Portion {
	case PortionMorning:
		narrowed = PortionAM
	case PortionAfternoon, PortionEvening, PortionNight:
		narrowed = PortionPM
	default:
		return
	}
	tok.Untag(KindRepeaterDayPortion)
	tok.Tag(DayPortion{Portion: narrowed})
}

// Arrow handlers.

func (r *resolver) srp(tokens []*Token) (*span.Span, error) {
	return r.offset(tokens, span.New(r.now, r.now.Add(time.Second)))
}

func (r *resolver) psr(tokens []*Token) (*span.Span, error) {
	return r.srp([]*Token{tokens[1], tokens[2], tokens[0]})
}

// srpa handles "3 years ago this friday": now is moved back three years and
// "this friday" is resolved from there.
func (r *resolver) srpa(tokens []*Token) (*span.Span, error) {
	shifted, err := r.srp(tokens[:3])
	if err != nil || shifted == nil {
		return nil, err
	}
	inner := &resolver{now: shifted.Begin, opts: r.opts}
	return inner.getAnchor(tokens[3:])
}

func (r *resolver) offset(tokens []*Token, s span.Span) (*span.Span, error) {
	amount, _ := scalarOf(tokens[0], ScalarPlain)
	rep, _ := tagOf[Repeater](tokens[1])
	pointer, _ := tagOf[Pointer](tokens[2])
	out, err := rep.Offset(s, amount, pointer)
	if errors.Is(err, ErrUnsupported) {
		// "3 fridays ago" has no unit width to step by.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Narrow handlers.

func (r *resolver) orsr(tokens []*Token) (*span.Span, error) {
	outer, err := r.getAnchor(tokens[3:4])
	if err != nil || outer == nil {
		return nil, err
	}
	return ordinalWithin(tokens[:2], *outer)
}

func (r *resolver) orgr(tokens []*Token) (*span.Span, error) {
	outer, err := r.getAnchor(tokens[2:4])
	if err != nil || outer == nil {
		return nil, err
	}
	return ordinalWithin(tokens[:2], *outer)
}

// ordinalWithin returns the n-th occurrence of the repeater starting inside
// outer, or nil when there are fewer than n.
func ordinalWithin(tokens []*Token, outer span.Span) (*span.Span, error) {
	n, _ := ordinalOf(tokens[0], false)
	rep, _ := tagOf[Repeater](tokens[1])
	cursor := NewCursor(outer.Begin.Add(-time.Second))
	var s span.Span
	var err error
	for i := 0; i < n; i++ {
		if s, cursor, err = rep.Next(cursor, Future); err != nil {
			return nil, err
		}
		if !s.Begin.Before(outer.End) {
			return nil, nil
		}
	}
	if n < 1 {
		return nil, nil
	}
	return &s, nil
}

func swap(tokens []*Token, i, j int) []*Token {
	out := append([]*Token(nil), tokens...)
	out[i], out[j] = out[j], out[i]
	return out
}
