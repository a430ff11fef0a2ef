package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/output"
)

// TokenRow is one tagged token.
type TokenRow struct {
	Word string   `json:"word"`
	Tags []string `json:"tags"`
}

// NewTokensCmd creates the tokens command.
func NewTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <expression...>",
		Short: "Show how an expression is normalized and tagged",
		Long: `Show the normalized text, the tags each surviving token carries and
the grammar rule that matched.

Words with no tag are dropped before matching and do not appear.`,
		Example: "  when tokens 'the day after tomorrow'\n  when tokens 3 weeks ago --json",
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

			res := a.result
			rows := tokenRows(res.Tokens)
			handler := "none"
			if res.Span != nil {
				handler = res.Group + "/" + res.Handler
			}

			return app.OK(rows,
				output.WithSummary(fmt.Sprintf("%q → %d tokens, matched %s", res.Normalized, len(rows), handler)),
				output.WithContext("input", res.Input),
				output.WithContext("normalized", res.Normalized),
				output.WithContext("handler", handler),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action:      "grammar",
					Cmd:         "when grammar",
					Description: "List the grammar rules",
				}),
			)
		},
	}
}

func tokenRows(tokens []*chronic.Token) []TokenRow {
	rows := make([]TokenRow, 0, len(tokens))
	for _, tok := range tokens {
		row := TokenRow{Word: tok.Word}
		for _, tag := range tok.Tags() {
			row.Tags = append(row.Tags, tag.String())
		}
		rows = append(rows, row)
	}
	return rows
}
