package numerizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumerize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Cardinals
		{"one", "1"},
		{"five", "5"},
		{"ten", "10"},
		{"eleven", "11"},
		{"twelve", "12"},
		{"thirteen", "13"},
		{"nineteen", "19"},
		{"ninteen", "19"},
		{"zero", "0"},

		// Tens and compounds
		{"twenty", "20"},
		{"twenty seven", "27"},
		{"twenty-seven", "27"},
		{"fourty two", "42"},
		{"ninety nine", "99"},

		// Hundreds and scales
		{"hundred", "hundred"},
		{"one hundred", "100"},
		{"one hundred and fifty", "150"},
		{"one hundred fifty", "150"},
		{"nineteen hundred", "1900"},
		{"two hundred fifty thousand", "250000"},
		{"one thousand two hundred thirty four", "1234"},
		{"three million", "3000000"},
		{"one million two hundred thousand", "1200000"},
		{"seven billion", "7000000000"},

		// Ordinals
		{"first", "1st"},
		{"third", "3rd"},
		{"fourth", "4th"},
		{"twelfth", "12th"},
		{"twentieth", "20th"},
		{"twenty first", "21st"},
		{"twenty-second", "22nd"},
		{"thirty third", "33rd"},
		{"hundredth", "hundredth"},
		{"one hundredth", "100th"},

		// "second" is a unit of time unless compounded
		{"second", "second"},
		{"3 seconds", "3 seconds"},

		// Mixed text
		{"five days ago", "5 days ago"},
		{"in twenty-seven minutes", "in 27 minutes"},
		{"first day of next month", "1st day of next month"},
		{"Twenty Seven", "27"},
		{"one two", "1 2"},
		{"two and three", "2 and 3"},
		{"one hundred and", "100 and"},
		{"five, six", "5, 6"},

		// Passthrough
		{"", ""},
		{"friday", "friday"},
		{"someone", "someone"},
		{"often", "often"},
		{"2006-08-16", "2006-08-16"},
		{"thousand years", "thousand years"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Numerize(tt.input))
		})
	}
}

func TestSuffix(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{1, "st"},
		{2, "nd"},
		{3, "rd"},
		{4, "th"},
		{11, "th"},
		{12, "th"},
		{13, "th"},
		{21, "st"},
		{22, "nd"},
		{101, "st"},
		{111, "th"},
		{0, "th"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Suffix(tt.n), "Suffix(%d)", tt.n)
	}
}

func FuzzNumerize(f *testing.F) {
	for _, s := range []string{
		"", "one", "twenty-seven", "one hundred and fifty", "and and",
		"first second third", "- - -", "two hundred fifty thousand", "zero zero",
	} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// Must never panic, and text without letters passes through.
		out := Numerize(input)
		if len(split(input)) == 1 && !split(input)[0].word && out != input {
			t.Errorf("non-word input changed: %q -> %q", input, out)
		}
	})
}

func BenchmarkNumerize(b *testing.B) {
	b.Run("plain", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Numerize("next friday at 5pm")
		}
	})

	b.Run("compound", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Numerize("two hundred fifty thousand and twenty seven days ago")
		}
	})
}
