package span

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ref = time.Date(2006, 8, 16, 14, 0, 0, 0, time.UTC)

func TestWidth(t *testing.T) {
	assert.Equal(t, int64(86400), New(ref, ref.AddDate(0, 0, 1)).Width())
	assert.Equal(t, int64(1), New(ref, ref.Add(time.Second)).Width())
	assert.Equal(t, int64(0), Instant(ref).Width())
}

func TestAddRoundTrip(t *testing.T) {
	s := New(ref, ref.Add(time.Hour))
	for _, x := range []int64{0, 1, -1, 3600, -86400, 31536000, -999999999} {
		assert.True(t, s.Add(x).Add(-x).Equal(s), "add %d", x)
	}
}

func TestAdd(t *testing.T) {
	s := New(ref, ref.Add(time.Second)).Add(60)
	assert.Equal(t, time.Date(2006, 8, 16, 14, 1, 0, 0, time.UTC), s.Begin)
	assert.Equal(t, int64(1), s.Width())
}

func TestAddDate(t *testing.T) {
	day := New(time.Date(2006, 8, 16, 0, 0, 0, 0, time.UTC), time.Date(2006, 8, 17, 0, 0, 0, 0, time.UTC))
	got := day.AddDate(0, 0, 7)
	assert.Equal(t, time.Date(2006, 8, 23, 0, 0, 0, 0, time.UTC), got.Begin)
	assert.Equal(t, int64(86400), got.Width())
}

func TestContainsAndCovers(t *testing.T) {
	s := New(ref, ref.Add(time.Hour))

	assert.True(t, s.Contains(ref))
	assert.False(t, s.Contains(ref.Add(time.Hour)))
	assert.True(t, s.Covers(ref.Add(time.Hour)))
	assert.False(t, s.Covers(ref.Add(-time.Second)))
}

func TestGuess(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		expected time.Time
	}{
		{
			name:     "day collapses to noon",
			span:     New(time.Date(2006, 8, 18, 0, 0, 0, 0, time.UTC), time.Date(2006, 8, 19, 0, 0, 0, 0, time.UTC)),
			expected: time.Date(2006, 8, 18, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "31 day month collapses to the 16th",
			span:     New(time.Date(2006, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2006, 9, 1, 0, 0, 0, 0, time.UTC)),
			expected: time.Date(2006, 8, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "february collapses to the 16th",
			span:     New(time.Date(2007, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2007, 3, 1, 0, 0, 0, 0, time.UTC)),
			expected: time.Date(2007, 2, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "30 day month collapses to the 16th",
			span:     New(time.Date(2006, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2006, 10, 1, 0, 0, 0, 0, time.UTC)),
			expected: time.Date(2006, 9, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "month-long span off the 1st uses the midpoint",
			span:     New(time.Date(2006, 2, 10, 0, 0, 0, 0, time.UTC), time.Date(2006, 3, 10, 0, 0, 0, 0, time.UTC)),
			expected: time.Date(2006, 2, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "one second span keeps begin",
			span:     New(ref, ref.Add(time.Second)),
			expected: ref,
		},
		{
			name:     "instant keeps begin",
			span:     Instant(ref),
			expected: ref,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Guess(tt.span))
		})
	}
}

func TestString(t *testing.T) {
	s := New(ref, ref.Add(time.Hour))
	assert.Equal(t, "(2006-08-16 14:00:00..2006-08-16 15:00:00)", s.String())
}
