package chronic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/basecamp/when/internal/span"
)

// Configuration misuse errors. Unrecognized text is not an error: Parse
// returns a nil span instead.
var (
	ErrNoReference    = errors.New("repeater has no reference instant")
	ErrUnsupported    = errors.New("operation not supported by repeater")
	ErrInvalidPointer = errors.New("invalid pointer")
	ErrInvalidOptions = errors.New("invalid options")
	ErrClockFormat    = errors.New("invalid clock time")
)

// DefaultAmbiguousTimeRange is the default start hour of the half-day window
// used to resolve a bare hour such as "5".
const DefaultAmbiguousTimeRange = 6

// Options controls a single parse.
type Options struct {
	// Now is the reference instant. Zero means time.Now().
	Now time.Time

	// Context is the direction used when the text does not state one.
	Context Pointer

	// AmbiguousTimeRange is the hour h such that a bare ambiguous clock
	// value resolves inside [h:00, h+12:00). Zero disables the rewrite.
	AmbiguousTimeRange int

	// Compatibility restores legacy disambiguation behavior.
	Compatibility bool

	// Guess collapses the result to its representative instant.
	Guess bool

	// Hooks receives parse stage notifications. Nil means no-op.
	Hooks Hooks
}

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{
		Context:            Future,
		AmbiguousTimeRange: DefaultAmbiguousTimeRange,
		Guess:              true,
	}
}

// Validate reports configuration misuse.
func (o Options) Validate() error {
	switch o.Context {
	case Past, Future, None:
	default:
		return fmt.Errorf("%w: unknown context %d", ErrInvalidOptions, int(o.Context))
	}
	if o.AmbiguousTimeRange < 0 || o.AmbiguousTimeRange > 23 {
		return fmt.Errorf("%w: ambiguous time range %d outside 0-23", ErrInvalidOptions, o.AmbiguousTimeRange)
	}
	return nil
}

func (o Options) hooks() Hooks {
	if o.Hooks == nil {
		return NopHooks{}
	}
	return o.Hooks
}

// ParsePointer converts "past", "future" or "none" to a Pointer.
func ParsePointer(s string) (Pointer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "past":
		return Past, nil
	case "future", "":
		return Future, nil
	case "none":
		return None, nil
	}
	return None, fmt.Errorf("%w: %q (want past, future or none)", ErrInvalidPointer, s)
}

// Hooks observes the stages of a parse. Implementations must be safe for
// concurrent use when the same Options value is shared across goroutines.
type Hooks interface {
	OnNormalized(input, normalized string)
	OnTokens(tokens []*Token)
	OnMatch(group, handler string)
	OnResult(input string, result *span.Span, err error, elapsed time.Duration)
}

// NopHooks ignores every notification.
type NopHooks struct{}

func (NopHooks) OnNormalized(string, string)                       {}
func (NopHooks) OnTokens([]*Token)                                 {}
func (NopHooks) OnMatch(string, string)                            {}
func (NopHooks) OnResult(string, *span.Span, error, time.Duration) {}
