package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/history"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/span"
)

// GuessResult is the single instant chosen for an expression.
type GuessResult struct {
	Input    string    `json:"input"`
	At       time.Time `json:"at"`
	Date     string    `json:"date"`
	Relative string    `json:"relative"`
}

// NewGuessCmd creates the guess command.
func NewGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <expression...>",
		Short: "Print the single instant an expression stands for",
		Long: `Resolve an expression and collapse its span to one instant.

Spans wider than a second resolve to their midpoint, so "tomorrow" guesses
noon. Guessing applies even when the guess setting is off.`,
		Example: "  when guess this afternoon\n  when guess 'aug 3' -q",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			input, err := joinArgs(args)
			if err != nil {
				return err
			}
			a, err := analyze(app, input)
			if err != nil {
				return err
			}
			if a.result.Span == nil {
				return output.ErrNoMatch(input)
			}

			s := *a.result.Span
			at := span.Guess(s)
			app.Remember(history.Entry{
				Input:   input,
				Handler: a.result.Handler,
				Begin:   s.Begin,
				End:     s.End,
				Guess:   at,
			})

			g := GuessResult{
				Input:    input,
				At:       at,
				Date:     app.Humanizer.Date(at),
				Relative: app.Humanizer.Relative(a.opts.Now, at),
			}
			return app.OK(g, output.WithSummary(at.Format(time.RFC1123)+" ("+g.Relative+")"))
		},
	}
}
