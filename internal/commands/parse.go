package commands

import (
	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/output"
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expression...>",
		Short: "Resolve a time expression",
		Long: `Resolve an English time expression to a span.

The span runs from begin (inclusive) to end (exclusive). With guessing on,
the representative instant is reported as well.

Examples:
  when parse tomorrow
  when parse next friday at 5pm
  when parse 3 years ago --context past
  when parse may 27 --now 2006-08-16T14:00:00Z --no-guess`,
		Args: cobra.MinimumNArgs(1),
		RunE: RunParse,
	}
}

// RunParse resolves the arguments as one expression. The root command runs
// it when called with an expression instead of a subcommand.
func RunParse(cmd *cobra.Command, args []string) error {
	app := appctx.FromContext(cmd.Context())
	if len(args) == 0 {
		return cmd.Help()
	}

	input, err := joinArgs(args)
	if err != nil {
		return err
	}
	r, err := resolve(app, input)
	if err != nil {
		return err
	}

	return app.OK(r,
		output.WithSummary(summarize(r)),
		output.WithBreadcrumbs(
			output.Breadcrumb{
				Action:      "tokens",
				Cmd:         "when tokens " + input,
				Description: "Show how the expression was read",
			},
			output.Breadcrumb{
				Action:      "history",
				Cmd:         "when history",
				Description: "Show recent expressions",
			},
		),
	)
}
