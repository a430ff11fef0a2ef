package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/config"
	"github.com/basecamp/when/internal/history"
	"github.com/basecamp/when/internal/humanize"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/span"
	"github.com/basecamp/when/internal/tui"
)

// NewTryCmd creates the try command.
func NewTryCmd() *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "try",
		Short: "Parse expressions interactively as you type",
		Long: `Open a prompt that parses the expression as you type and shows the
tokens, the matching rule and the result.

Press enter to keep a result in the history, up and down to recall earlier
expressions and esc to quit. Edits to the config files take effect without
restarting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if !app.IsInteractive() {
				return output.ErrUsageHint("try needs an interactive terminal", "Use: when tokens <expression>")
			}
			return runTry(cmd.Context(), app, !noWatch)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when config files change")
	return cmd
}

func runTry(ctx context.Context, app *appctx.App, watch bool) error {
	var recent []string
	if app.History != nil {
		for _, e := range app.History.List(0) {
			recent = append(recent, e.Input)
		}
	}

	program := tui.NewTryProgram(tui.TryOptions{
		Resolve: tryResolver(app, app.Config, app.Humanizer),
		Recent:  recent,
		OnAccept: func(r tui.TryResult) {
			app.Remember(history.Entry{
				Input:   r.Input,
				Handler: r.Handler,
				Begin:   r.Span.Begin,
				End:     r.Span.End,
				Guess:   r.Guess,
			})
		},
	})

	if watch {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		w, err := config.NewWatcher(config.WatchPaths(),
			func() { program.Send(reloadConfig(app)) },
			func(err error) { app.Logger.Debug("config watch error", "error", err) },
		)
		if err != nil {
			app.Logger.Debug("config watch disabled", "error", err)
		} else {
			go w.Run(ctx)
		}
	}

	final, err := program.Run()
	if err != nil {
		return output.ErrInternal(err)
	}

	app.Logger.Debug("try session finished", "kept", len(tui.AcceptedResults(final)))
	return nil
}

// reloadConfig reloads the config layers with the session's flags.
func reloadConfig(app *appctx.App) tui.ConfigReloadedMsg {
	cfg, err := config.Load(app.Overrides)
	if err != nil {
		return tui.ConfigReloadedMsg{Err: err}
	}
	humanizer, err := humanize.New(humanize.ResolveLocale(cfg.Locale))
	if err != nil {
		return tui.ConfigReloadedMsg{Err: err}
	}
	app.Logger.Debug("config reloaded", "sources", cfg.Sources)
	return tui.ConfigReloadedMsg{Resolve: tryResolver(app, cfg, humanizer)}
}

// tryResolver parses against cfg. The reference instant is taken per parse
// so relative results stay current while the prompt is open.
func tryResolver(app *appctx.App, cfg *config.Config, humanizer *humanize.Formatter) tui.Resolver {
	return func(input string) tui.TryResult {
		r := tui.TryResult{Input: input}

		now, err := app.NowIn(cfg)
		if err != nil {
			r.Err = err
			return r
		}
		opts, err := cfg.ParserOptions(now)
		if err != nil {
			r.Err = err
			return r
		}
		opts.Hooks = app.Hooks

		res, err := chronic.Analyze(input, opts)
		if err != nil {
			r.Err = err
			return r
		}

		r.Normalized = res.Normalized
		for _, row := range tokenRows(res.Tokens) {
			r.Tokens = append(r.Tokens, tui.TryToken{Word: row.Word, Tags: row.Tags})
		}
		if res.Span == nil {
			return r
		}

		r.Span = res.Span
		r.Handler = fmt.Sprintf("%s/%s", res.Group, res.Handler)
		r.Guess = span.Guess(*res.Span)
		r.Relative = humanizer.Relative(opts.Now, r.Guess)
		return r
	}
}
