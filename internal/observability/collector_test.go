package observability

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSessionCollector_RecordParse(t *testing.T) {
	c := NewSessionCollector()

	c.RecordParse(ParseMetrics{Input: "tomorrow", Matched: true, Duration: 50 * time.Microsecond})
	c.RecordParse(ParseMetrics{Input: "blorp", Duration: 10 * time.Microsecond})
	c.RecordParse(ParseMetrics{Input: "x", Error: errors.New("bad options")})

	summary := c.Summary()
	if summary.TotalParses != 3 {
		t.Errorf("expected 3 parses, got %d", summary.TotalParses)
	}
	if summary.Matched != 1 {
		t.Errorf("expected 1 match, got %d", summary.Matched)
	}
	if summary.NoMatch != 1 {
		t.Errorf("expected 1 no-match, got %d", summary.NoMatch)
	}
	if summary.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", summary.Failed)
	}
	if summary.TotalLatency != 60*time.Microsecond {
		t.Errorf("expected 60µs latency, got %v", summary.TotalLatency)
	}
}

func TestSessionCollector_RecordMatch(t *testing.T) {
	c := NewSessionCollector()
	c.RecordMatch("date", "rmn_sd")
	c.RecordMatch("date", "rmn_sd")
	c.RecordMatch("arrow", "s_r_p")

	summary := c.Summary()
	if summary.Handlers["date/rmn_sd"] != 2 {
		t.Errorf("expected 2 rmn_sd hits, got %d", summary.Handlers["date/rmn_sd"])
	}

	// Summary returns a copy
	summary.Handlers["date/rmn_sd"] = 99
	if c.Summary().Handlers["date/rmn_sd"] != 2 {
		t.Error("mutating a summary should not affect the collector")
	}
}

func TestSessionCollector_Reset(t *testing.T) {
	c := NewSessionCollector()
	c.RecordParse(ParseMetrics{Matched: true})
	c.RecordMatch("anchor", "r")

	c.Reset()

	summary := c.Summary()
	if summary.TotalParses != 0 || len(summary.Handlers) != 0 {
		t.Errorf("expected empty summary after reset, got %+v", summary)
	}
}

func TestSessionCollector_Concurrent(t *testing.T) {
	c := NewSessionCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordMatch("anchor", "r")
			c.RecordParse(ParseMetrics{Matched: true})
		}()
	}
	wg.Wait()

	summary := c.Summary()
	if summary.TotalParses != 50 {
		t.Errorf("expected 50 parses, got %d", summary.TotalParses)
	}
	if summary.Handlers["anchor/r"] != 50 {
		t.Errorf("expected 50 anchor/r hits, got %d", summary.Handlers["anchor/r"])
	}
}

func TestSessionMetrics_MapRoundTrip(t *testing.T) {
	c := NewSessionCollector()
	c.RecordParse(ParseMetrics{Matched: true, Duration: 250 * time.Microsecond})
	c.RecordParse(ParseMetrics{})
	c.RecordMatch("narrow", "o_r_g_r")

	// Meta travels through JSON before rendering
	b, err := json.Marshal(c.Summary().ToMap())
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	m := SessionMetricsFromMap(decoded)
	if m.TotalParses != 2 || m.Matched != 1 || m.NoMatch != 1 {
		t.Errorf("unexpected counts: %+v", m)
	}
	if m.TotalLatency != 250*time.Microsecond {
		t.Errorf("expected 250µs, got %v", m.TotalLatency)
	}
	if m.Handlers["narrow/o_r_g_r"] != 1 {
		t.Errorf("expected handler count, got %v", m.Handlers)
	}
}

func TestSessionMetrics_FormatParts(t *testing.T) {
	m := SessionMetrics{
		TotalParses:  3,
		NoMatch:      1,
		TotalLatency: 42 * time.Microsecond,
		Handlers:     map[string]int{"anchor/r": 1, "date/rmn_sd": 2},
	}

	parts := m.FormatParts()
	expected := []string{"3 parsed", "1 unmatched", "date/rmn_sd", "42µs"}
	if len(parts) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, parts)
	}
	for i := range expected {
		if parts[i] != expected[i] {
			t.Errorf("part %d: expected %q, got %q", i, expected[i], parts[i])
		}
	}

	if len(SessionMetrics{}.FormatParts()) != 0 {
		t.Error("empty metrics should format to nothing")
	}
}
