package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTraceWriter_WriteNormalized(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	w.WriteNormalized("Tomorrow at Noon", "next day at 12:00 pm")

	output := buf.String()
	if !strings.Contains(output, `normalized "Tomorrow at Noon" -> "next day at 12:00 pm"`) {
		t.Errorf("unexpected output: %s", output)
	}
	if !strings.HasPrefix(output, "[") {
		t.Errorf("expected timestamp prefix, got: %s", output)
	}
}

func TestTraceWriter_WriteTokens(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	w.WriteTokens([]string{"next[grabber(next)]", "day[repeater(day)]"})
	w.WriteTokens(nil)

	output := buf.String()
	if !strings.Contains(output, "tokens next[grabber(next)] day[repeater(day)]") {
		t.Errorf("expected token list, got: %s", output)
	}
	if !strings.Contains(output, "(none tagged)") {
		t.Errorf("expected empty marker, got: %s", output)
	}
}

func TestTraceWriter_WriteMatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)

	w.WriteMatch("arrow", "s_r_p")

	if !strings.Contains(buf.String(), "Matched arrow/s_r_p") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestTraceWriter_WriteResult(t *testing.T) {
	tests := []struct {
		name     string
		result   string
		err      error
		expected string
	}{
		{"matched", "(2006-08-17 00:00:00..2006-08-18 00:00:00)", nil, `Parsed "x" -> (2006-08-17 00:00:00..2006-08-18 00:00:00) (50µs)`},
		{"no match", "", nil, `No match for "x" (50µs)`},
		{"error", "", errors.New("boom"), `Failed "x": boom`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewTraceWriterTo(&buf)
			w.WriteResult("x", tt.result, tt.err, 50*time.Microsecond)
			if !strings.Contains(buf.String(), tt.expected) {
				t.Errorf("expected %q, got: %s", tt.expected, buf.String())
			}
		})
	}
}

func TestTraceWriter_Reset(t *testing.T) {
	var buf bytes.Buffer
	w := NewTraceWriterTo(&buf)
	w.startTime = time.Now().Add(-time.Hour)

	w.Reset()
	w.WriteMatch("date", "rmn_sd")

	if !strings.HasPrefix(buf.String(), "[0.0") {
		t.Errorf("expected elapsed time near zero after reset, got: %s", buf.String())
	}
}
