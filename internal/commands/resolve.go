package commands

import (
	"strings"
	"time"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/history"
	"github.com/basecamp/when/internal/interval"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/span"
)

// Resolution is the data returned for a parsed expression.
type Resolution struct {
	Input    string     `json:"input"`
	Begin    time.Time  `json:"begin"`
	End      time.Time  `json:"end"`
	Width    int64      `json:"width"`
	Guess    *time.Time `json:"guess,omitempty"`
	Interval string     `json:"interval"`
	Duration string     `json:"duration"`
	Relative string     `json:"relative"`
	Handler  string     `json:"handler"`
}

// analysis pairs the engine's result with the options it ran under.
type analysis struct {
	result *chronic.Result
	opts   chronic.Options
}

// joinArgs turns positional arguments into one expression.
func joinArgs(args []string) (string, error) {
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		return "", output.ErrUsageHint("Expression required", "Example: when next friday at 5pm")
	}
	return input, nil
}

// analyze runs the engine over input with the app's options.
func analyze(app *appctx.App, input string) (*analysis, error) {
	opts, err := app.ParserOptions()
	if err != nil {
		return nil, err
	}
	res, err := chronic.Analyze(input, opts)
	if err != nil {
		return nil, output.ErrInternal(err)
	}
	return &analysis{result: res, opts: opts}, nil
}

// resolve parses input and builds its Resolution. An unmatched input is a
// no_match error. Matches are recorded in the history.
func resolve(app *appctx.App, input string) (*Resolution, error) {
	a, err := analyze(app, input)
	if err != nil {
		return nil, err
	}
	s := a.result.Span
	if s == nil {
		return nil, output.ErrNoMatch(input)
	}

	r := newResolution(app, input, a.result.Handler, *s, a.opts)
	app.Remember(history.Entry{
		Input:   input,
		Handler: r.Handler,
		Begin:   r.Begin,
		End:     r.End,
		Guess:   span.Guess(*s),
	})
	return r, nil
}

func newResolution(app *appctx.App, input, handler string, s span.Span, opts chronic.Options) *Resolution {
	r := &Resolution{
		Input:    input,
		Begin:    s.Begin,
		End:      s.End,
		Width:    s.Width(),
		Interval: interval.Format(s),
		Duration: interval.Period(s.Width()),
		Handler:  handler,
	}
	at := s.Begin
	if opts.Guess {
		g := span.Guess(s)
		r.Guess = &g
		at = g
	}
	r.Relative = app.Humanizer.Relative(opts.Now, at)
	return r
}

// summarize describes a resolution in one line.
func summarize(r *Resolution) string {
	const layout = "Mon Jan 2 2006 15:04:05 MST"
	if r.Guess != nil {
		return r.Guess.Format(layout) + " (" + r.Relative + ")"
	}
	if r.Width == 0 {
		return r.Begin.Format(layout) + " (" + r.Relative + ")"
	}
	return r.Begin.Format(layout) + " to " + r.End.Format(layout)
}
