// Package numerizer rewrites spelled-out English numbers as digits.
//
//	"twenty seven"                -> "27"
//	"one hundred and fifty"       -> "150"
//	"two hundred fifty thousand"  -> "250000"
//	"twenty-first"                -> "21st"
//
// Words that are not part of a number phrase are copied through unchanged.
package numerizer

import (
	"strconv"
	"strings"
	"unicode"
)

type class int

const (
	classNone class = iota
	classZero
	classUnit
	classTeen
	classTen
	classHundred
	classScale
)

type word struct {
	class   class
	value   int64
	ordinal bool
}

var cardinals = map[string]word{
	"zero":      {classZero, 0, false},
	"one":       {classUnit, 1, false},
	"two":       {classUnit, 2, false},
	"three":     {classUnit, 3, false},
	"four":      {classUnit, 4, false},
	"five":      {classUnit, 5, false},
	"six":       {classUnit, 6, false},
	"seven":     {classUnit, 7, false},
	"eight":     {classUnit, 8, false},
	"nine":      {classUnit, 9, false},
	"ten":       {classTeen, 10, false},
	"eleven":    {classTeen, 11, false},
	"twelve":    {classTeen, 12, false},
	"thirteen":  {classTeen, 13, false},
	"fourteen":  {classTeen, 14, false},
	"fifteen":   {classTeen, 15, false},
	"sixteen":   {classTeen, 16, false},
	"seventeen": {classTeen, 17, false},
	"eighteen":  {classTeen, 18, false},
	"nineteen":  {classTeen, 19, false},
	"ninteen":   {classTeen, 19, false},
	"twenty":    {classTen, 20, false},
	"thirty":    {classTen, 30, false},
	"forty":     {classTen, 40, false},
	"fourty":    {classTen, 40, false},
	"fifty":     {classTen, 50, false},
	"sixty":     {classTen, 60, false},
	"seventy":   {classTen, 70, false},
	"eighty":    {classTen, 80, false},
	"ninety":    {classTen, 90, false},
	"hundred":   {classHundred, 100, false},
	"thousand":  {classScale, 1_000, false},
	"million":   {classScale, 1_000_000, false},
	"billion":   {classScale, 1_000_000_000, false},
	"trillion":  {classScale, 1_000_000_000_000, false},

	"first":       {classUnit, 1, true},
	"third":       {classUnit, 3, true},
	"fourth":      {classUnit, 4, true},
	"fifth":       {classUnit, 5, true},
	"sixth":       {classUnit, 6, true},
	"seventh":     {classUnit, 7, true},
	"eighth":      {classUnit, 8, true},
	"ninth":       {classUnit, 9, true},
	"tenth":       {classTeen, 10, true},
	"eleventh":    {classTeen, 11, true},
	"twelfth":     {classTeen, 12, true},
	"thirteenth":  {classTeen, 13, true},
	"fourteenth":  {classTeen, 14, true},
	"fifteenth":   {classTeen, 15, true},
	"sixteenth":   {classTeen, 16, true},
	"seventeenth": {classTeen, 17, true},
	"eighteenth":  {classTeen, 18, true},
	"nineteenth":  {classTeen, 19, true},
	"twentieth":   {classTen, 20, true},
	"thirtieth":   {classTen, 30, true},
	"fortieth":    {classTen, 40, true},
	"fiftieth":    {classTen, 50, true},
	"sixtieth":    {classTen, 60, true},
	"seventieth":  {classTen, 70, true},
	"eightieth":   {classTen, 80, true},
	"ninetieth":   {classTen, 90, true},
	"hundredth":   {classHundred, 100, true},
	"thousandth":  {classScale, 1_000, true},
	"millionth":   {classScale, 1_000_000, true},
	"billionth":   {classScale, 1_000_000_000, true},
}

// "second" is a unit of time on its own; it only counts as an ordinal
// after a tens word ("twenty second").
var second = word{classUnit, 2, true}

// Numerize returns s with every number phrase replaced by its digits.
func Numerize(s string) string {
	pieces := split(s)
	if len(pieces) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(pieces); {
		if pieces[i].word {
			if value, end, ordinal, ok := consume(pieces, i); ok {
				b.WriteString(strconv.FormatInt(value, 10))
				if ordinal {
					b.WriteString(Suffix(value))
				}
				i = end
				continue
			}
		}
		b.WriteString(pieces[i].text)
		i++
	}
	return b.String()
}

// Suffix returns the English ordinal suffix for n ("st", "nd", "rd", "th").
func Suffix(n int64) string {
	if n < 0 {
		n = -n
	}
	switch n % 100 {
	case 11, 12, 13:
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

type piece struct {
	text string
	word bool
}

// split cuts s into alternating runs of ASCII letters and everything else.
func split(s string) []piece {
	var pieces []piece
	start := 0
	inWord := false
	for i, r := range s {
		letter := r < unicode.MaxASCII && unicode.IsLetter(r)
		if i == 0 {
			inWord = letter
			continue
		}
		if letter != inWord {
			pieces = append(pieces, piece{text: s[start:i], word: inWord})
			start = i
			inWord = letter
		}
	}
	if len(s) > 0 {
		pieces = append(pieces, piece{text: s[start:], word: inWord})
	}
	return pieces
}

// joiner reports whether a gap may sit between two words of one number.
func joiner(gap string) bool {
	if gap == "-" {
		return true
	}
	return strings.Trim(gap, " \t") == ""
}

// phrase accumulates one number phrase.
type phrase struct {
	total     int64
	current   int64
	last      class
	lastScale int64
}

func (p *phrase) accept(w word) bool {
	switch w.class {
	case classZero:
		if p.last != classNone {
			return false
		}
	case classUnit:
		switch p.last {
		case classNone, classTen, classHundred, classScale:
		default:
			return false
		}
		p.current += w.value
	case classTeen, classTen:
		switch p.last {
		case classNone, classHundred, classScale:
		default:
			return false
		}
		p.current += w.value
	case classHundred:
		switch p.last {
		case classUnit, classTeen, classTen:
		default:
			return false
		}
		if p.current >= 100 {
			return false
		}
		p.current *= w.value
	case classScale:
		switch p.last {
		case classUnit, classTeen, classTen, classHundred:
		default:
			return false
		}
		if p.lastScale != 0 && w.value >= p.lastScale {
			return false
		}
		p.total += p.current * w.value
		p.current = 0
		p.lastScale = w.value
	default:
		return false
	}
	p.last = w.class
	return true
}

func (p *phrase) value() int64 {
	return p.total + p.current
}

func lookup(text string, last class) (word, bool) {
	lower := strings.ToLower(text)
	if lower == "second" {
		return second, last == classTen
	}
	w, ok := cardinals[lower]
	return w, ok
}

// consume reads the number phrase starting at pieces[start]. It returns the
// value, the index just past the last consumed word and whether the phrase
// ended with an ordinal word.
func consume(pieces []piece, start int) (int64, int, bool, bool) {
	var p phrase
	end := start
	words := 0
	ordinal := false

	for j := start; j < len(pieces); j++ {
		pc := pieces[j]
		if !pc.word {
			if !joiner(pc.text) {
				break
			}
			continue
		}

		if words > 0 && strings.EqualFold(pc.text, "and") {
			if p.last != classHundred && p.last != classScale {
				break
			}
			next := nextWord(pieces, j+1)
			if next < 0 {
				break
			}
			w, ok := lookup(pieces[next].text, p.last)
			trial := p
			if !ok || !trial.accept(w) {
				break
			}
			continue
		}

		w, ok := lookup(pc.text, p.last)
		if !ok || !p.accept(w) {
			break
		}
		words++
		end = j + 1
		if w.ordinal {
			ordinal = true
			break
		}
	}

	if words == 0 {
		return 0, start, false, false
	}
	return p.value(), end, ordinal, true
}

// nextWord returns the index of the next word piece reachable through
// joiners, or -1.
func nextWord(pieces []piece, from int) int {
	for j := from; j < len(pieces); j++ {
		if pieces[j].word {
			return j
		}
		if !joiner(pieces[j].text) {
			return -1
		}
	}
	return -1
}
