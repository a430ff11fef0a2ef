package chronic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basecamp/when/internal/span"
)

func allUnits(t *testing.T) map[string]Repeater {
	t.Helper()
	out := map[string]Repeater{}
	for u := UnitSecond; u <= UnitYear; u++ {
		r, err := NewUnit(u)
		require.NoError(t, err)
		out[r.String()] = r
	}
	return out
}

func TestUnitRepeaterNextIsMonotonic(t *testing.T) {
	refs := []time.Time{at(2006, 1, 31, 14, 0, 0), at(2006, 12, 31, 14, 0, 0)}
	for d := 13; d <= 19; d++ {
		refs = append(refs, at(2006, 8, d, 14, 0, 0))
	}

	for _, ref := range refs {
		for name, r := range allUnits(t) {
			t.Run(ref.Format("Mon_2006-01-02")+"/"+name, func(t *testing.T) {
				first, c, err := r.Next(NewCursor(ref), Future)
				require.NoError(t, err)
				anchor, moved := c.Anchor()
				assert.True(t, moved)
				assert.Equal(t, first.Begin, anchor, "cursor anchors on the returned span")

				second, _, err := r.Next(c, Future)
				require.NoError(t, err)

				assert.True(t, first.Begin.After(ref), "first future span begins after now")
				assert.True(t, first.Begin.Before(first.End))
				assert.False(t, second.Begin.Before(first.End), "spans are disjoint and increasing")
				if _, weekend := r.(Weekend); !weekend {
					assert.Equal(t, first.End, second.Begin, "spans are adjacent")
				}

				past, c, err := r.Next(NewCursor(ref), Past)
				require.NoError(t, err)
				earlier, _, err := r.Next(c, Past)
				require.NoError(t, err)

				assert.False(t, past.End.After(ref), "first past span ends at or before now")
				assert.True(t, past.Begin.Before(past.End))
				assert.False(t, earlier.End.After(past.Begin))
			})
		}
	}
}

func TestWeekendNextPastSkipsCurrentWeekend(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		begin time.Time
	}{
		{"saturday", at(2006, 8, 19, 14, 0, 0), at(2006, 8, 12, 0, 0, 0)},
		{"sunday", at(2006, 8, 20, 14, 0, 0), at(2006, 8, 12, 0, 0, 0)},
		{"monday", at(2006, 8, 21, 0, 0, 0), at(2006, 8, 19, 0, 0, 0)},
		{"friday", at(2006, 8, 18, 23, 0, 0), at(2006, 8, 12, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Weekend{}.Next(NewCursor(tt.now), Past)
			require.NoError(t, err)
			assert.Equal(t, span.New(tt.begin, tt.begin.AddDate(0, 0, 2)), got)

			opts := exact()
			opts.Now = tt.now
			parsed, err := Parse("last weekend", opts)
			require.NoError(t, err)
			require.NotNil(t, parsed)
			assert.Equal(t, tt.begin, parsed.Begin)
		})
	}
}

func TestUnitRepeaterNext(t *testing.T) {
	tests := []struct {
		unit   Unit
		p      Pointer
		begin  time.Time
		end    time.Time
		second time.Time
	}{
		{UnitYear, Future, at(2007, 1, 1, 0, 0, 0), at(2008, 1, 1, 0, 0, 0), at(2008, 1, 1, 0, 0, 0)},
		{UnitYear, Past, at(2005, 1, 1, 0, 0, 0), at(2006, 1, 1, 0, 0, 0), at(2004, 1, 1, 0, 0, 0)},
		{UnitMonth, Future, at(2006, 9, 1, 0, 0, 0), at(2006, 10, 1, 0, 0, 0), at(2006, 10, 1, 0, 0, 0)},
		{UnitMonth, Past, at(2006, 7, 1, 0, 0, 0), at(2006, 8, 1, 0, 0, 0), at(2006, 6, 1, 0, 0, 0)},
		{UnitFortnight, Future, at(2006, 8, 20, 0, 0, 0), at(2006, 9, 3, 0, 0, 0), at(2006, 9, 3, 0, 0, 0)},
		{UnitFortnight, Past, at(2006, 7, 30, 0, 0, 0), at(2006, 8, 13, 0, 0, 0), at(2006, 7, 16, 0, 0, 0)},
		{UnitWeek, Future, at(2006, 8, 20, 0, 0, 0), at(2006, 8, 27, 0, 0, 0), at(2006, 8, 27, 0, 0, 0)},
		{UnitWeek, Past, at(2006, 8, 6, 0, 0, 0), at(2006, 8, 13, 0, 0, 0), at(2006, 7, 30, 0, 0, 0)},
		{UnitWeekend, Future, at(2006, 8, 19, 0, 0, 0), at(2006, 8, 21, 0, 0, 0), at(2006, 8, 26, 0, 0, 0)},
		{UnitWeekend, Past, at(2006, 8, 12, 0, 0, 0), at(2006, 8, 14, 0, 0, 0), at(2006, 8, 5, 0, 0, 0)},
		{UnitDay, Future, at(2006, 8, 17, 0, 0, 0), at(2006, 8, 18, 0, 0, 0), at(2006, 8, 18, 0, 0, 0)},
		{UnitDay, Past, at(2006, 8, 15, 0, 0, 0), at(2006, 8, 16, 0, 0, 0), at(2006, 8, 14, 0, 0, 0)},
		{UnitHour, Future, at(2006, 8, 16, 15, 0, 0), at(2006, 8, 16, 16, 0, 0), at(2006, 8, 16, 16, 0, 0)},
		{UnitHour, Past, at(2006, 8, 16, 13, 0, 0), at(2006, 8, 16, 14, 0, 0), at(2006, 8, 16, 12, 0, 0)},
		{UnitMinute, Future, at(2006, 8, 16, 14, 1, 0), at(2006, 8, 16, 14, 2, 0), at(2006, 8, 16, 14, 2, 0)},
		{UnitSecond, Past, at(2006, 8, 16, 13, 59, 59), at(2006, 8, 16, 14, 0, 0), at(2006, 8, 16, 13, 59, 58)},
	}
	for _, tt := range tests {
		r, err := NewUnit(tt.unit)
		require.NoError(t, err)
		t.Run(r.String()+"/"+tt.p.String(), func(t *testing.T) {
			first, c, err := r.Next(NewCursor(now), tt.p)
			require.NoError(t, err)
			assert.Equal(t, span.New(tt.begin, tt.end), first)

			second, _, err := r.Next(c, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.second, second.Begin)
		})
	}
}

func TestUnitRepeaterThis(t *testing.T) {
	tests := []struct {
		unit  Unit
		p     Pointer
		begin time.Time
		end   time.Time
	}{
		{UnitYear, Future, at(2006, 8, 17, 0, 0, 0), at(2007, 1, 1, 0, 0, 0)},
		{UnitYear, Past, at(2006, 1, 1, 0, 0, 0), at(2006, 8, 16, 0, 0, 0)},
		{UnitYear, None, at(2006, 1, 1, 0, 0, 0), at(2007, 1, 1, 0, 0, 0)},
		{UnitMonth, Future, at(2006, 8, 17, 0, 0, 0), at(2006, 9, 1, 0, 0, 0)},
		{UnitMonth, Past, at(2006, 8, 1, 0, 0, 0), at(2006, 8, 16, 0, 0, 0)},
		{UnitWeek, Past, at(2006, 8, 13, 0, 0, 0), at(2006, 8, 16, 14, 0, 0)},
		{UnitWeek, None, at(2006, 8, 13, 0, 0, 0), at(2006, 8, 20, 0, 0, 0)},
		{UnitFortnight, Future, at(2006, 8, 16, 15, 0, 0), at(2006, 8, 27, 0, 0, 0)},
		{UnitWeekend, Future, at(2006, 8, 19, 0, 0, 0), at(2006, 8, 21, 0, 0, 0)},
		{UnitWeekend, Past, at(2006, 8, 12, 0, 0, 0), at(2006, 8, 14, 0, 0, 0)},
		{UnitDay, Future, at(2006, 8, 16, 14, 0, 0), at(2006, 8, 17, 0, 0, 0)},
		{UnitDay, Past, at(2006, 8, 16, 0, 0, 0), at(2006, 8, 16, 14, 0, 0)},
		{UnitDay, None, at(2006, 8, 16, 0, 0, 0), at(2006, 8, 17, 0, 0, 0)},
		{UnitHour, Future, at(2006, 8, 16, 14, 1, 0), at(2006, 8, 16, 15, 0, 0)},
		{UnitHour, None, at(2006, 8, 16, 14, 0, 0), at(2006, 8, 16, 15, 0, 0)},
		{UnitMinute, Past, at(2006, 8, 16, 14, 0, 0), at(2006, 8, 16, 14, 0, 0)},
		{UnitSecond, None, at(2006, 8, 16, 14, 0, 0), at(2006, 8, 16, 14, 0, 1)},
	}
	for _, tt := range tests {
		r, err := NewUnit(tt.unit)
		require.NoError(t, err)
		t.Run(r.String()+"/"+tt.p.String(), func(t *testing.T) {
			got, err := r.This(NewCursor(now), tt.p)
			require.NoError(t, err)
			assert.Equal(t, span.New(tt.begin, tt.end), got)
		})
	}
}

func TestUnitRepeaterOffset(t *testing.T) {
	base := span.New(now, now.Add(time.Second))
	jan31 := span.New(at(2006, 1, 31, 0, 0, 0), at(2006, 2, 1, 0, 0, 0))

	tests := []struct {
		name   string
		unit   Unit
		s      span.Span
		amount int
		p      Pointer
		begin  time.Time
	}{
		{"3 years ago", UnitYear, base, 3, Past, at(2003, 8, 16, 14, 0, 0)},
		{"in 2 months", UnitMonth, base, 2, Future, at(2006, 10, 16, 14, 0, 0)},
		{"month clamps", UnitMonth, jan31, 1, Future, at(2006, 2, 28, 0, 0, 0)},
		{"in 2 fortnights", UnitFortnight, base, 2, Future, at(2006, 9, 13, 14, 0, 0)},
		{"week ago", UnitWeek, base, 1, Past, at(2006, 8, 9, 14, 0, 0)},
		{"2 weekends ago", UnitWeekend, base, 2, Past, at(2006, 8, 5, 0, 0, 0)},
		{"in 1 weekend", UnitWeekend, base, 1, Future, at(2006, 8, 19, 0, 0, 0)},
		{"in 3 days", UnitDay, base, 3, Future, at(2006, 8, 19, 14, 0, 0)},
		{"5 hours ago", UnitHour, base, 5, Past, at(2006, 8, 16, 9, 0, 0)},
		{"in 90 minutes", UnitMinute, base, 90, Future, at(2006, 8, 16, 15, 30, 0)},
		{"in 30 seconds", UnitSecond, base, 30, Future, at(2006, 8, 16, 14, 0, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewUnit(tt.unit)
			require.NoError(t, err)
			got, err := r.Offset(tt.s, tt.amount, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.begin, got.Begin)
			assert.Equal(t, tt.s.Width(), got.Width(), "offset keeps the width")
		})
	}
}

func TestRepeaterErrors(t *testing.T) {
	day, err := NewUnit(UnitDay)
	require.NoError(t, err)

	_, _, err = day.Next(Cursor{}, Future)
	assert.ErrorIs(t, err, ErrNoReference)

	_, err = day.This(Cursor{}, Future)
	assert.ErrorIs(t, err, ErrNoReference)

	_, _, err = day.Next(NewCursor(now), None)
	assert.ErrorIs(t, err, ErrInvalidPointer)

	_, err = day.Offset(span.Instant(now), 1, None)
	assert.ErrorIs(t, err, ErrInvalidPointer)

	_, err = NewUnit(Unit(42))
	assert.ErrorIs(t, err, ErrUnsupported)

	for _, r := range []Repeater{DayName{Day: time.Friday}, MonthName{Month: time.May}, ClockTime{Seconds: 5 * hourSeconds}} {
		_, err := r.Offset(span.Instant(now), 1, Future)
		assert.ErrorIs(t, err, ErrUnsupported, r.String())
	}
}

func TestDayNameNext(t *testing.T) {
	tests := []struct {
		day   time.Weekday
		p     Pointer
		first time.Time
		next  time.Time
	}{
		{time.Friday, Future, at(2006, 8, 18, 0, 0, 0), at(2006, 8, 25, 0, 0, 0)},
		{time.Friday, Past, at(2006, 8, 11, 0, 0, 0), at(2006, 8, 4, 0, 0, 0)},
		{time.Wednesday, Future, at(2006, 8, 23, 0, 0, 0), at(2006, 8, 30, 0, 0, 0)},
		{time.Wednesday, Past, at(2006, 8, 9, 0, 0, 0), at(2006, 8, 2, 0, 0, 0)},
	}
	for _, tt := range tests {
		r := DayName{Day: tt.day}
		t.Run(r.String()+"/"+tt.p.String(), func(t *testing.T) {
			first, c, err := r.Next(NewCursor(now), tt.p)
			require.NoError(t, err)
			assert.Equal(t, span.New(tt.first, tt.first.AddDate(0, 0, 1)), first)

			next, _, err := r.Next(c, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.next, next.Begin)
		})
	}
}

func TestMonthNameNext(t *testing.T) {
	tests := []struct {
		name   string
		month  MonthName
		p      Pointer
		expect time.Time
	}{
		{"current future", MonthName{Month: time.August}, Future, at(2007, 8, 1, 0, 0, 0)},
		{"current future legacy", MonthName{Month: time.August, legacy: true}, Future, at(2006, 8, 1, 0, 0, 0)},
		{"current none", MonthName{Month: time.August}, None, at(2006, 8, 1, 0, 0, 0)},
		{"current past", MonthName{Month: time.August}, Past, at(2006, 8, 1, 0, 0, 0)},
		{"earlier future", MonthName{Month: time.May}, Future, at(2007, 5, 1, 0, 0, 0)},
		{"earlier past", MonthName{Month: time.May}, Past, at(2006, 5, 1, 0, 0, 0)},
		{"later future", MonthName{Month: time.December}, Future, at(2006, 12, 1, 0, 0, 0)},
		{"later past", MonthName{Month: time.December}, Past, at(2005, 12, 1, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, c, err := tt.month.Next(NewCursor(now), tt.p)
			require.NoError(t, err)
			assert.Equal(t, span.New(tt.expect, tt.expect.AddDate(0, 1, 0)), got)

			if tt.p != None {
				again, _, err := tt.month.Next(c, tt.p)
				require.NoError(t, err)
				assert.Equal(t, 1, abs(again.Begin.Year()-got.Begin.Year()))
			}
		})
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestDayPortionNext(t *testing.T) {
	tests := []struct {
		portion Portion
		p       Pointer
		begin   time.Time
	}{
		{PortionMorning, Future, at(2006, 8, 17, 6, 0, 0)},
		{PortionMorning, Past, at(2006, 8, 16, 6, 0, 0)},
		{PortionEvening, Future, at(2006, 8, 16, 17, 0, 0)},
		{PortionEvening, Past, at(2006, 8, 15, 17, 0, 0)},
		{PortionAfternoon, Future, at(2006, 8, 17, 13, 0, 0)},
		{PortionAfternoon, Past, at(2006, 8, 15, 13, 0, 0)},
		{PortionAM, Future, at(2006, 8, 17, 0, 0, 0)},
		{PortionPM, Past, at(2006, 8, 15, 12, 0, 0)},
	}
	for _, tt := range tests {
		r := DayPortion{Portion: tt.portion}
		t.Run(r.String()+"/"+tt.p.String(), func(t *testing.T) {
			got, c, err := r.Next(NewCursor(now), tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.begin, got.Begin)
			assert.Equal(t, r.Width(), got.Width())

			again, _, err := r.Next(c, tt.p)
			require.NoError(t, err)
			assert.Equal(t, got.Begin.Sub(again.Begin).Abs(), 24*time.Hour)
		})
	}
}

func TestDayPortionHalfDay(t *testing.T) {
	r := DayPortion{Portion: PortionHalfDay, Hour: 6}
	assert.Equal(t, "repeater_day_portion(6-18)", r.String())
	assert.Equal(t, int64(12*hourSeconds), r.Width())

	got, err := r.This(NewCursor(now), None)
	require.NoError(t, err)
	assert.Equal(t, span.New(at(2006, 8, 16, 6, 0, 0), at(2006, 8, 16, 18, 0, 0)), got)

	shifted, err := r.Offset(span.Instant(now), 2, Future)
	require.NoError(t, err)
	assert.Equal(t, at(2006, 8, 18, 6, 0, 0), shifted.Begin)
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		word      string
		seconds   int64
		ambiguous bool
	}{
		{"5", 5 * hourSeconds, true},
		{"12", 0, true},
		{"0", 0, false},
		{"17", 17 * hourSeconds, false},
		{"930", 9*hourSeconds + 30*minuteSeconds, true},
		{"9:30", 9*hourSeconds + 30*minuteSeconds, true},
		{"0930", 9*hourSeconds + 30*minuteSeconds, false},
		{"1430", 14*hourSeconds + 30*minuteSeconds, false},
		{"1130", 11*hourSeconds + 30*minuteSeconds, false},
		{"11:30", 11*hourSeconds + 30*minuteSeconds, true},
		{"12:01", minuteSeconds, true},
		{"24:00", 24 * hourSeconds, false},
		{"53015", 5*hourSeconds + 30*minuteSeconds + 15, true},
		{"14:30:15", 14*hourSeconds + 30*minuteSeconds + 15, false},
		{"5.30", 5*hourSeconds + 30*minuteSeconds, true},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, err := ParseClockTime(tt.word)
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, got.Seconds)
			assert.Equal(t, tt.ambiguous, got.Ambiguous)
		})
	}
}

func TestParseClockTimeErrors(t *testing.T) {
	for _, word := range []string{"25", "1260", "24:01", "1234567", "12a", "99:99"} {
		t.Run(word, func(t *testing.T) {
			_, err := ParseClockTime(word)
			assert.ErrorIs(t, err, ErrClockFormat)
		})
	}
}

func TestClockTimeNext(t *testing.T) {
	five, err := ParseClockTime("5")
	require.NoError(t, err)

	got, c, err := five.Next(NewCursor(now), Future)
	require.NoError(t, err)
	assert.Equal(t, at(2006, 8, 16, 17, 0, 0), got.Begin)
	assert.Equal(t, int64(1), got.Width())

	got, _, err = five.Next(c, Future)
	require.NoError(t, err)
	assert.Equal(t, at(2006, 8, 17, 5, 0, 0), got.Begin, "ambiguous times step by 12 hours")

	got, _, err = five.Next(NewCursor(now), Past)
	require.NoError(t, err)
	assert.Equal(t, at(2006, 8, 16, 5, 0, 0), got.Begin)

	seventeen, err := ParseClockTime("1700")
	require.NoError(t, err)
	got, c, err = seventeen.Next(NewCursor(now), Past)
	require.NoError(t, err)
	assert.Equal(t, at(2006, 8, 15, 17, 0, 0), got.Begin)

	got, _, err = seventeen.Next(c, Past)
	require.NoError(t, err)
	assert.Equal(t, at(2006, 8, 14, 17, 0, 0), got.Begin, "unambiguous times step by a day")
}

func TestRepeaterWidthsOrder(t *testing.T) {
	ordered := []Repeater{
		Year{}, Month{}, Fortnight{}, Week{}, Weekend{}, Day{},
		DayPortion{Portion: PortionAM}, DayPortion{Portion: PortionMorning},
		Hour{}, Minute{}, Second{},
	}
	for i := 1; i < len(ordered); i++ {
		assert.GreaterOrEqual(t, ordered[i-1].Width(), ordered[i].Width(), "%s before %s", ordered[i-1], ordered[i])
	}
	assert.Equal(t, Month{}.Width(), MonthName{Month: time.May}.Width())
	assert.Equal(t, Day{}.Width(), DayName{Day: time.Friday}.Width())
}
