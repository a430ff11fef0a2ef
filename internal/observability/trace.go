package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// TraceWriter outputs human-readable trace information to stderr.
// It formats output with timestamps relative to session start.
type TraceWriter struct {
	mu        sync.Mutex
	writer    io.Writer
	startTime time.Time
}

// NewTraceWriter creates a new TraceWriter that writes to stderr.
func NewTraceWriter() *TraceWriter {
	return &TraceWriter{
		writer:    os.Stderr,
		startTime: time.Now(),
	}
}

// NewTraceWriterTo creates a new TraceWriter that writes to the given writer.
func NewTraceWriterTo(w io.Writer) *TraceWriter {
	return &TraceWriter{
		writer:    w,
		startTime: time.Now(),
	}
}

func (t *TraceWriter) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.startTime).Seconds()
	fmt.Fprintf(t.writer, "[%.3fs] "+format+"\n", append([]any{elapsed}, args...)...)
}

// WriteNormalized writes the rewritten input.
// Format: [0.001s]   normalized "Tomorrow" -> "next day"
func (t *TraceWriter) WriteNormalized(input, normalized string) {
	t.printf("  normalized %q -> %q", input, normalized)
}

// WriteTokens writes the tagged tokens.
// Format: [0.001s]   tokens next[grabber(next)] day[repeater(day)]
func (t *TraceWriter) WriteTokens(tokens []string) {
	if len(tokens) == 0 {
		t.printf("  tokens (none tagged)")
		return
	}
	t.printf("  tokens %s", strings.Join(tokens, " "))
}

// WriteMatch writes the grammar rule that accepted the tokens.
// Format: [0.001s] Matched anchor/r
func (t *TraceWriter) WriteMatch(group, handler string) {
	t.printf("Matched %s/%s", group, handler)
}

// WriteResult writes a parse completion line.
// Format: [0.001s] Parsed "tomorrow" -> 2006-08-17 00:00:00..2006-08-18 00:00:00 (120µs)
func (t *TraceWriter) WriteResult(input, result string, err error, duration time.Duration) {
	switch {
	case err != nil:
		t.printf("Failed %q: %v", input, err)
	case result == "":
		t.printf("No match for %q (%dµs)", input, duration.Microseconds())
	default:
		t.printf("Parsed %q -> %s (%dµs)", input, result, duration.Microseconds())
	}
}

// Reset resets the start time for relative timestamps.
func (t *TraceWriter) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startTime = time.Now()
}
