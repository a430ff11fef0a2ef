package observability

import (
	"sync"
	"time"

	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/span"
)

// Verify CLIHooks implements chronic.Hooks at compile time.
var _ chronic.Hooks = (*CLIHooks)(nil)

// CLIHooks implements chronic.Hooks for CLI observability.
// It supports configurable verbosity levels:
//   - 0: Silent (collect stats only, no output)
//   - 1: Outcomes (matched rule and result)
//   - 2: Stages (normalized text and tokens as well)
type CLIHooks struct {
	mu        sync.Mutex
	level     int
	collector *SessionCollector
	writer    *TraceWriter
}

// NewCLIHooks creates a new CLIHooks with the given verbosity level.
// If collector is nil, metrics are not collected.
// If writer is nil, no trace output is produced.
func NewCLIHooks(level int, collector *SessionCollector, writer *TraceWriter) *CLIHooks {
	return &CLIHooks{
		level:     level,
		collector: collector,
		writer:    writer,
	}
}

// SetLevel changes the verbosity level at runtime.
func (h *CLIHooks) SetLevel(level int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
}

// Level returns the current verbosity level.
func (h *CLIHooks) Level() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.level
}

func (h *CLIHooks) snapshot() (int, *SessionCollector, *TraceWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.level, h.collector, h.writer
}

// OnNormalized is called once the input has been rewritten.
func (h *CLIHooks) OnNormalized(input, normalized string) {
	level, _, writer := h.snapshot()
	if level >= 2 && writer != nil {
		writer.WriteNormalized(input, normalized)
	}
}

// OnTokens is called with the tagged tokens.
func (h *CLIHooks) OnTokens(tokens []*chronic.Token) {
	level, _, writer := h.snapshot()
	if level < 2 || writer == nil {
		return
	}
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.String()
	}
	writer.WriteTokens(words)
}

// OnMatch is called when a grammar rule accepts the tokens.
func (h *CLIHooks) OnMatch(group, handler string) {
	level, collector, writer := h.snapshot()
	if collector != nil {
		collector.RecordMatch(group, handler)
	}
	if level >= 1 && writer != nil {
		writer.WriteMatch(group, handler)
	}
}

// OnResult is called when a parse completes.
func (h *CLIHooks) OnResult(input string, result *span.Span, err error, elapsed time.Duration) {
	level, collector, writer := h.snapshot()
	if collector != nil {
		collector.RecordParse(ParseMetrics{
			Input:    input,
			Matched:  result != nil,
			Duration: elapsed,
			Error:    err,
		})
	}
	if level >= 1 && writer != nil {
		var text string
		if result != nil {
			text = result.String()
		}
		writer.WriteResult(input, text, err, elapsed)
	}
}
