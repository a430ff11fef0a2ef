// Package observability provides metrics collection and tracing for parses.
package observability

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ParseMetrics holds the outcome of a single parse.
type ParseMetrics struct {
	Input    string
	Matched  bool
	Duration time.Duration
	Error    error
}

// SessionMetrics aggregates metrics for an entire CLI session.
type SessionMetrics struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalParses  int
	Matched      int
	NoMatch      int
	Failed       int
	TotalLatency time.Duration

	// Handlers counts matches per "group/handler" rule.
	Handlers map[string]int
}

// SessionCollector accumulates metrics across a CLI session.
// It is safe for concurrent use and uses counters instead of unbounded slices.
type SessionCollector struct {
	mu sync.Mutex

	startTime    time.Time
	totalParses  int
	matched      int
	noMatch      int
	failed       int
	totalLatency time.Duration
	handlers     map[string]int
}

// NewSessionCollector creates a new SessionCollector.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{
		startTime: time.Now(),
		handlers:  make(map[string]int),
	}
}

// RecordParse records the outcome of a parse.
func (c *SessionCollector) RecordParse(m ParseMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalParses++
	c.totalLatency += m.Duration
	switch {
	case m.Error != nil:
		c.failed++
	case m.Matched:
		c.matched++
	default:
		c.noMatch++
	}
}

// RecordMatch counts a grammar rule hit.
func (c *SessionCollector) RecordMatch(group, handler string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[group+"/"+handler]++
}

// Summary returns aggregated metrics for the session.
func (c *SessionCollector) Summary() SessionMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	handlers := make(map[string]int, len(c.handlers))
	for k, v := range c.handlers {
		handlers[k] = v
	}

	return SessionMetrics{
		StartTime:    c.startTime,
		EndTime:      time.Now(),
		TotalParses:  c.totalParses,
		Matched:      c.matched,
		NoMatch:      c.noMatch,
		Failed:       c.failed,
		TotalLatency: c.totalLatency,
		Handlers:     handlers,
	}
}

// Reset clears all collected metrics and resets the start time.
func (c *SessionCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.totalParses = 0
	c.matched = 0
	c.noMatch = 0
	c.failed = 0
	c.totalLatency = 0
	c.handlers = make(map[string]int)
}

// ToMap converts the metrics to the shape stored in a response's meta.
func (m SessionMetrics) ToMap() map[string]any {
	handlers := make(map[string]any, len(m.Handlers))
	for k, v := range m.Handlers {
		handlers[k] = v
	}
	return map[string]any{
		"parses":     m.TotalParses,
		"matched":    m.Matched,
		"no_match":   m.NoMatch,
		"failed":     m.Failed,
		"latency_us": m.TotalLatency.Microseconds(),
		"elapsed_ms": m.EndTime.Sub(m.StartTime).Milliseconds(),
		"handlers":   handlers,
	}
}

// SessionMetricsFromMap rebuilds metrics from ToMap output. Numbers may
// arrive as float64 after a JSON round-trip.
func SessionMetricsFromMap(data map[string]any) SessionMetrics {
	m := SessionMetrics{
		TotalParses:  toInt(data["parses"]),
		Matched:      toInt(data["matched"]),
		NoMatch:      toInt(data["no_match"]),
		Failed:       toInt(data["failed"]),
		TotalLatency: time.Duration(toInt(data["latency_us"])) * time.Microsecond,
		Handlers:     make(map[string]int),
	}
	m.EndTime = m.StartTime.Add(time.Duration(toInt(data["elapsed_ms"])) * time.Millisecond)
	if handlers, ok := data["handlers"].(map[string]any); ok {
		for k, v := range handlers {
			m.Handlers[k] = toInt(v)
		}
	}
	return m
}

// FormatParts renders the non-empty metrics as short labels, most
// important first.
func (m SessionMetrics) FormatParts() []string {
	var parts []string
	if m.TotalParses > 0 {
		parts = append(parts, fmt.Sprintf("%d parsed", m.TotalParses))
	}
	if m.NoMatch > 0 {
		parts = append(parts, fmt.Sprintf("%d unmatched", m.NoMatch))
	}
	if m.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", m.Failed))
	}
	if top := m.topHandler(); top != "" {
		parts = append(parts, top)
	}
	if m.TotalLatency > 0 {
		parts = append(parts, fmt.Sprintf("%dµs", m.TotalLatency.Microseconds()))
	}
	return parts
}

func (m SessionMetrics) topHandler() string {
	keys := make([]string, 0, len(m.Handlers))
	for k := range m.Handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m.Handlers[keys[i]] != m.Handlers[keys[j]] {
			return m.Handlers[keys[i]] > m.Handlers[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
