package chronic

import (
	"regexp"
	"strconv"
	"time"
)

type pattern[T any] struct {
	re  *regexp.Regexp
	tag T
}

var monthNamePatterns = []pattern[time.Month]{
	{regexp.MustCompile(`^jan(uary)?$`), time.January},
	{regexp.MustCompile(`^feb(ruary)?$`), time.February},
	{regexp.MustCompile(`^mar(ch)?$`), time.March},
	{regexp.MustCompile(`^apr(il)?$`), time.April},
	{regexp.MustCompile(`^may$`), time.May},
	{regexp.MustCompile(`^jun(e)?$`), time.June},
	{regexp.MustCompile(`^jul(y)?$`), time.July},
	{regexp.MustCompile(`^aug(ust)?$`), time.August},
	{regexp.MustCompile(`^sep(t(ember)?)?$`), time.September},
	{regexp.MustCompile(`^oct(ober)?$`), time.October},
	{regexp.MustCompile(`^nov(ember)?$`), time.November},
	{regexp.MustCompile(`^dec(ember)?$`), time.December},
}

var dayNamePatterns = []pattern[time.Weekday]{
	{regexp.MustCompile(`^m[ou]n(day)?$`), time.Monday},
	{regexp.MustCompile(`^t(ue|eu|oo|u)s(day)?$|^tue$`), time.Tuesday},
	{regexp.MustCompile(`^we(d|dnes|nds|nns)day$|^wed$`), time.Wednesday},
	{regexp.MustCompile(`^th(u|ur|urs|ers)day$|^thu(rs?)?$`), time.Thursday},
	{regexp.MustCompile(`^fr[iy](day)?$`), time.Friday},
	{regexp.MustCompile(`^sat(t?[ue]rday)?$`), time.Saturday},
	{regexp.MustCompile(`^su[nm](day)?$`), time.Sunday},
}

var dayPortionPatterns = []pattern[Portion]{
	{regexp.MustCompile(`^ams?$`), PortionAM},
	{regexp.MustCompile(`^pms?$`), PortionPM},
	{regexp.MustCompile(`^mornings?$`), PortionMorning},
	{regexp.MustCompile(`^afternoons?$`), PortionAfternoon},
	{regexp.MustCompile(`^evenings?$`), PortionEvening},
	{regexp.MustCompile(`^(night|nite)s?$`), PortionNight},
}

var unitPatterns = []pattern[Unit]{
	{regexp.MustCompile(`^years?$`), UnitYear},
	{regexp.MustCompile(`^months?$`), UnitMonth},
	{regexp.MustCompile(`^fortnights?$`), UnitFortnight},
	{regexp.MustCompile(`^weeks?$`), UnitWeek},
	{regexp.MustCompile(`^weekends?$`), UnitWeekend},
	{regexp.MustCompile(`^days?$`), UnitDay},
	{regexp.MustCompile(`^(hour|hr)s?$`), UnitHour},
	{regexp.MustCompile(`^(minute|min)s?$`), UnitMinute},
	{regexp.MustCompile(`^(second|sec)s?$`), UnitSecond},
}

var clockTimePattern = regexp.MustCompile(`^\d{1,2}(:?\d{2})?([.:]?\d{2})?$`)

var grabberWords = map[string]Grabber{
	"last": GrabLast,
	"this": GrabThis,
	"next": GrabNext,
}

var pointerWords = map[string]Pointer{
	"past":   Past,
	"future": Future,
	"in":     Future,
}

var separatorWords = map[string]Separator{
	",":  SeparatorComma,
	"/":  SeparatorSlashOrDash,
	"-":  SeparatorSlashOrDash,
	"at": SeparatorAt,
	"@":  SeparatorAt,
	"in": SeparatorIn,
	"on": SeparatorOn,
}

// Words that turn a preceding number into a clock time rather than a scalar.
var dayPortionWords = map[string]bool{
	"am":        true,
	"pm":        true,
	"morning":   true,
	"afternoon": true,
	"evening":   true,
	"night":     true,
}

var (
	scalarPattern      = regexp.MustCompile(`^\d+$`)
	scalarShortPattern = regexp.MustCompile(`^\d\d?$`)
	scalarYearPattern  = regexp.MustCompile(`^(\d{2}|[1-9]\d{3})$`)
	ordinalPattern     = regexp.MustCompile(`^(\d+)(st|nd|rd|th)$`)
)

// Scan tags every token with each role it could play. It is exported for
// diagnostics; Parse runs it as part of the pipeline.
func Scan(tokens []*Token, opts Options) {
	for i, tok := range tokens {
		var next *Token
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}
		if r := scanRepeater(tok.Word, opts); r != nil {
			tok.Tag(r)
		}
		if g, ok := grabberWords[tok.Word]; ok {
			tok.Tag(g)
		}
		if p, ok := pointerWords[tok.Word]; ok {
			tok.Tag(p)
		}
		for _, s := range scanScalars(tok.Word, next) {
			tok.Tag(s)
		}
		if o, ok := scanOrdinal(tok.Word); ok {
			tok.Tag(o)
			if o.Value >= 1 && o.Value <= 31 {
				tok.Tag(Ordinal{Day: true, Value: o.Value})
			}
		}
		if s, ok := separatorWords[tok.Word]; ok {
			tok.Tag(s)
		}
	}
}

// scanRepeater returns the first repeater the word spells, trying month
// names, day names, day portions, clock times and units in that order.
func scanRepeater(word string, opts Options) Repeater {
	for _, p := range monthNamePatterns {
		if p.re.MatchString(word) {
			return MonthName{Month: p.tag, legacy: opts.Compatibility}
		}
	}
	for _, p := range dayNamePatterns {
		if p.re.MatchString(word) {
			return DayName{Day: p.tag}
		}
	}
	for _, p := range dayPortionPatterns {
		if p.re.MatchString(word) {
			return DayPortion{Portion: p.tag}
		}
	}
	if clockTimePattern.MatchString(word) {
		if t, err := ParseClockTime(word); err == nil {
			return t
		}
	}
	for _, p := range unitPatterns {
		if p.re.MatchString(word) {
			r, err := NewUnit(p.tag)
			if err != nil {
				return nil
			}
			return r
		}
	}
	return nil
}

func scanScalars(word string, next *Token) []Scalar {
	if next != nil && dayPortionWords[next.Word] {
		return nil
	}
	if !scalarPattern.MatchString(word) {
		return nil
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return nil
	}

	tags := []Scalar{{Kind: ScalarPlain, Value: n}}
	if scalarShortPattern.MatchString(word) {
		// Day scalars have no upper bound so "may 40" reaches the date
		// handler and fails there instead of reading 40 as a year.
		if n >= 1 {
			tags = append(tags, Scalar{Kind: ScalarDay, Value: n})
		}
		if n >= 1 && n <= 12 {
			tags = append(tags, Scalar{Kind: ScalarMonth, Value: n})
		}
	}
	if scalarYearPattern.MatchString(word) {
		year := n
		if len(word) == 2 {
			if n <= 68 {
				year += 2000
			} else {
				year += 1900
			}
		}
		tags = append(tags, Scalar{Kind: ScalarYear, Value: year})
	}
	return tags
}

func scanOrdinal(word string) (Ordinal, bool) {
	m := ordinalPattern.FindStringSubmatch(word)
	if m == nil {
		return Ordinal{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Ordinal{}, false
	}
	return Ordinal{Value: n}, true
}
