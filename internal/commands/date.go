package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/dateparse"
	"github.com/basecamp/when/internal/output"
)

// DateResult is a calendar date resolved from an expression.
type DateResult struct {
	Input string `json:"input"`
	Date  string `json:"date"`
}

// NewDateCmd creates the date command.
func NewDateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date <expression...>",
		Short: "Resolve an expression to a YYYY-MM-DD date",
		Long: `Resolve an expression to a calendar date.

Shorthands:
  next week, next month   shift the current date
  eow, end of week        the coming Friday
  eom, end of month       the last day of the month
  +N                      N days from today
  YYYY-MM-DD              passed through

Anything else is parsed as a time expression and the date of its guess is
returned.`,
		Example: "  when date eow\n  when date +3\n  when date first monday in september",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			input, err := joinArgs(args)
			if err != nil {
				return err
			}
			now, err := app.Now()
			if err != nil {
				return err
			}
			pointer, err := chronic.ParsePointer(app.Config.Context)
			if err != nil {
				return output.ErrConfig(err.Error(), err)
			}

			date, ok := dateparse.ParseFrom(input, now, pointer)
			if !ok {
				return output.ErrNoMatch(input)
			}
			d := DateResult{Input: strings.ToLower(input), Date: date}
			return app.OK(d, output.WithSummary(d.Date))
		},
	}
}
