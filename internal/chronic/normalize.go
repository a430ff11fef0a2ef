package chronic

import (
	"regexp"
	"strings"

	"github.com/basecamp/when/internal/numerizer"
)

type rewrite struct {
	re   *regexp.Regexp
	with string
}

// aliases are applied in order after numerizing.
var aliases = []rewrite{
	{regexp.MustCompile(`\btoday\b`), "this day"},
	{regexp.MustCompile(`\btomm?orr?ow\b`), "next day"},
	{regexp.MustCompile(`\byesterday\b`), "last day"},
	{regexp.MustCompile(`\bnoon\b`), "12:00 pm"},
	{regexp.MustCompile(`\bmidnight\b`), "24:00"},
	{regexp.MustCompile(`\bbefore now\b`), "past"},
	{regexp.MustCompile(`\bnow\b`), "this second"},
	{regexp.MustCompile(`\b(ago|before)\b`), "past"},
	{regexp.MustCompile(`\bthis (past|last)\b`), "last"},
	{regexp.MustCompile(`\b(in|during) the morning\b`), "morning"},
	{regexp.MustCompile(`\b(in the|during the|at) (afternoon|evening|night)\b`), "$2"},
	{regexp.MustCompile(`\btonight\b`), "this night"},
	{regexp.MustCompile(`(\d)([ap]m|oclock)\b`), "$1 $2"},
	{regexp.MustCompile(`\b(hence|after|from)\b`), "future"},
	{regexp.MustCompile(`\ban?\s+(second|minute|hour|day|week|fortnight|weekend|month|year)(s?)\b`), "1 $1$2"},
	{regexp.MustCompile(`\bsecond (of|day|week|fortnight|month|year|hour|minute|second)\b`), "2nd $1"},
	{regexp.MustCompile(`\bsecond (` + weekdayWords + `|` + monthWords + `)\b`), "2nd $1"},
}

const (
	weekdayWords = `mon(day)?|tue(s|sday)?|wed(nesday)?|thu(rs|rsday)?|fri(day)?|sat(urday)?|sun(day)?`
	monthWords   = `jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|may|june?|july?|aug(ust)?|sep(t|tember)?|oct(ober)?|nov(ember)?|dec(ember)?`
)

var (
	quotes      = regexp.MustCompile(`['"]`)
	punctuation = regexp.MustCompile(`([/\-,@])`)
)

// Normalize lowercases text, spells numbers as digits, pads punctuation
// and rewrites colloquial phrases into the vocabulary the scanners know.
func Normalize(text string) string {
	s := numerizer.Numerize(strings.ToLower(text))
	s = quotes.ReplaceAllString(s, "")
	s = stripPeriods(s)
	s = punctuation.ReplaceAllString(s, " $1 ")
	for _, a := range aliases {
		s = a.re.ReplaceAllString(s, a.with)
	}
	return strings.Join(strings.Fields(s), " ")
}

// stripPeriods drops periods except those between two digits, so "a.m."
// becomes "am" while "5.30" keeps its separator.
func stripPeriods(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && !(i > 0 && isDigit(s[i-1]) && i+1 < len(s) && isDigit(s[i+1])) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
