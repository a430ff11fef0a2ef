// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/config"
	"github.com/basecamp/when/internal/history"
	"github.com/basecamp/when/internal/humanize"
	"github.com/basecamp/when/internal/observability"
	"github.com/basecamp/when/internal/output"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config    *config.Config
	Output    *output.Writer
	History   *history.Store
	Humanizer *humanize.Formatter

	// Observability
	Collector *observability.SessionCollector
	Hooks     *observability.CLIHooks
	Logger    *slog.Logger

	// Flags holds the global flag values
	Flags GlobalFlags

	// Stdout receives command output. Nil means os.Stdout.
	Stdout io.Writer

	// Overrides are the flag values config was loaded with, kept so the
	// config can be reloaded with the same flags.
	Overrides config.FlagOverrides

	clock func() time.Time
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON   bool
	Quiet  bool
	MD     bool // Literal Markdown syntax output
	Styled bool // Force ANSI styled output (even when piped)
	Count  bool
	Agent  bool
	JQ     string

	// Parser flags
	Now            string
	Context        string
	AmbiguousRange int
	NoGuess        bool
	Compat         bool
	Timezone       string
	Locale         string

	// Behavior flags
	Verbose   int // 0=off, 1=outcomes, 2=outcomes+stages (stacks with -v -v or -vv)
	Stats     bool
	CacheDir  string
	NoHistory bool
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) (*App, error) {
	// Collector always runs to gather stats; hooks control output verbosity.
	// Level 0 initially; ApplyFlags sets the actual level from -v flags.
	collector := observability.NewSessionCollector()
	traceWriter := observability.NewTraceWriter()
	hooks := observability.NewCLIHooks(0, collector, traceWriter)

	humanizer, err := humanize.New(humanize.ResolveLocale(cfg.Locale))
	if err != nil {
		return nil, output.ErrInternal(err)
	}

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return nil, output.ErrConfig(fmt.Sprintf("Invalid format %q", cfg.Format), err)
	}

	app := &App{
		Config:    cfg,
		Humanizer: humanizer,
		Collector: collector,
		Hooks:     hooks,
		Logger:    slog.New(slog.DiscardHandler),
		Output: output.New(output.Options{
			Format: format,
			Writer: os.Stdout,
		}),
		clock: time.Now,
	}
	if cfg.History {
		app.History = history.NewStore(cfg.CacheDir, cfg.HistorySize)
	}
	return app, nil
}

// ApplyFlags applies global flag values to the app configuration.
func (a *App) ApplyFlags() {
	stdout := a.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	opts := output.Options{Format: a.outputFormat(), Writer: stdout, JQ: a.Flags.JQ}
	a.Output = output.New(opts)

	if a.Flags.NoHistory {
		a.History = nil
	}
	if !a.Flags.Stats && a.Config.Stats != nil {
		a.Flags.Stats = *a.Config.Stats
	}

	// Config verbose includes WHEN_DEBUG; the higher level wins
	verboseLevel := a.Flags.Verbose
	if a.Config.Verbose != nil && *a.Config.Verbose > verboseLevel {
		verboseLevel = *a.Config.Verbose
	}
	a.Flags.Verbose = verboseLevel

	if a.Hooks != nil {
		a.Hooks.SetLevel(verboseLevel)
	}

	if verboseLevel > 0 {
		a.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		a.Logger.Debug("config loaded", "sources", a.Config.Sources)
	}
}

// outputFormat picks the format from flags, most specific first, falling
// back to the configured format.
func (a *App) outputFormat() output.Format {
	switch {
	case a.Flags.Agent:
		return output.FormatQuiet
	case a.Flags.Count:
		return output.FormatCount
	case a.Flags.Quiet:
		return output.FormatQuiet
	case a.Flags.JSON:
		return output.FormatJSON
	case a.Flags.Styled:
		return output.FormatStyled
	case a.Flags.MD:
		return output.FormatMarkdown
	}
	format, _ := output.ParseFormat(a.Config.Format)
	return format
}

// Now returns the reference instant: --now when given, else the clock, in
// the configured zone.
func (a *App) Now() (time.Time, error) {
	return a.NowIn(a.Config)
}

// NowIn is Now in the time zone of cfg, which may differ from a.Config
// after a reload.
func (a *App) NowIn(cfg *config.Config) (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, output.ErrConfig(err.Error(), err)
	}
	if a.Flags.Now == "" {
		return a.clock().In(loc), nil
	}
	t, err := ParseNow(a.Flags.Now, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// SetClock replaces the clock used when --now is absent.
func (a *App) SetClock(clock func() time.Time) {
	a.clock = clock
}

var nowLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseNow parses a --now value. Values without an offset are read in loc.
func ParseNow(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range nowLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, output.ErrUsageHint(
		fmt.Sprintf("Invalid --now value %q", raw),
		"Use RFC 3339 (2006-08-16T14:00:00Z) or 2006-08-16 14:00:00",
	)
}

// ParserOptions returns parse options for the configuration with the
// session hooks attached.
func (a *App) ParserOptions() (chronic.Options, error) {
	now, err := a.Now()
	if err != nil {
		return chronic.Options{}, err
	}
	opts, err := a.Config.ParserOptions(now)
	if err != nil {
		return chronic.Options{}, output.ErrConfig(err.Error(), err)
	}
	if a.Hooks != nil {
		opts.Hooks = a.Hooks
	}
	return opts, nil
}

// Remember records a resolved expression in the history. Failures are
// logged and otherwise ignored.
func (a *App) Remember(e history.Entry) {
	if a.History == nil {
		return
	}
	if err := a.History.Add(e); err != nil {
		a.Logger.Debug("history write failed", "error", err)
	}
}

// OK outputs a success response, automatically including stats if --stats flag is set.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	if a.Flags.Stats && a.Collector != nil {
		stats := a.Collector.Summary()
		opts = append(opts, output.WithMeta("stats", stats.ToMap()))
	}
	return a.Output.OK(data, opts...)
}

// Err outputs an error response, printing stats to stderr if --stats flag is set.
func (a *App) Err(err error) error {
	if outputErr := a.Output.Err(err); outputErr != nil {
		return outputErr
	}

	// Machine-consumable modes keep stderr clean
	if a.Flags.Stats && a.Collector != nil && !a.isMachineOutput() {
		stats := a.Collector.Summary()
		a.printStatsToStderr(&stats)
	}
	return nil
}

// isMachineOutput returns true if the output mode is intended for programmatic consumption.
// Checks both flags and config-driven format settings.
func (a *App) isMachineOutput() bool {
	if a.Flags.Agent || a.Flags.Quiet || a.Flags.Count || a.Flags.JQ != "" {
		return true
	}
	return a.Config != nil && (a.Config.Format == "quiet" || a.Config.Format == "count")
}

// printStatsToStderr outputs a compact stats line to stderr.
func (a *App) printStatsToStderr(stats *observability.SessionMetrics) {
	if stats == nil {
		return
	}
	parts := stats.FormatParts()
	if len(parts) > 0 {
		fmt.Fprintf(os.Stderr, "\nStats: %s\n", strings.Join(parts, " | "))
	}
}

// IsInteractive returns true if the terminal supports interactive TUI.
func (a *App) IsInteractive() bool {
	if a.Flags.Agent || a.Flags.JSON || a.Flags.Quiet || a.Flags.Count || a.Flags.JQ != "" {
		return false
	}
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
