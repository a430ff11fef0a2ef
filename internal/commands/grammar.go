package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/chronic"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/richtext"
)

// groupOrder is the order groups are tried in.
var groupOrder = []string{chronic.GroupDate, chronic.GroupAnchor, chronic.GroupArrow, chronic.GroupNarrow}

var groupBlurbs = map[string]string{
	chronic.GroupDate:   "Absolute dates built from month, day and year parts.",
	chronic.GroupAnchor: "Dates relative to now through a grabber or a named day or month.",
	chronic.GroupArrow:  "A distance before or after an anchor, such as \"3 days ago\".",
	chronic.GroupNarrow: "An ordinal occurrence inside a wider span, such as \"3rd monday in may\".",
	"time":              "Sub-rule for a clock time with an optional day portion.",
}

// NewGrammarCmd creates the grammar command.
func NewGrammarCmd() *cobra.Command {
	var group string
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "List the grammar rules expressions are matched against",
		Long: `List the grammar rules in the order they are tried.

Each rule is a sequence of tag kinds. A trailing "?" marks an optional
element. Use "when tokens" to see the tags an expression produces.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			defs := chronic.Definitions()
			if group != "" {
				defs = filterGroup(defs, group)
				if len(defs) == 0 {
					return output.ErrUsageHint(
						fmt.Sprintf("Unknown group %q", group),
						"Groups: date, anchor, arrow, narrow, time",
					)
				}
			}

			if asYAML {
				enc := yaml.NewEncoder(app.Output.Out())
				enc.SetIndent(2)
				if err := enc.Encode(defs); err != nil {
					return output.ErrInternal(err)
				}
				return enc.Close()
			}

			if app.Output.EffectiveFormat() == output.FormatStyled {
				rendered, err := richtext.RenderMarkdown(grammarDocument(defs).String())
				if err != nil {
					return output.ErrInternal(err)
				}
				_, err = fmt.Fprint(app.Output.Out(), rendered)
				return err
			}

			return app.OK(defs,
				output.WithSummary(fmt.Sprintf("%d grammar rules", len(defs))),
				output.WithBreadcrumbs(output.Breadcrumb{
					Action:      "tokens",
					Cmd:         "when tokens <expression>",
					Description: "See which rule an expression matches",
				}),
			)
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Only list one group (date, anchor, arrow, narrow, time)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the rules as YAML")
	_ = cmd.RegisterFlagCompletionFunc("group", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return append(slices.Clone(groupOrder), "time"), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func filterGroup(defs []chronic.Definition, group string) []chronic.Definition {
	var out []chronic.Definition
	for _, d := range defs {
		if d.Group == group {
			out = append(out, d)
		}
	}
	return out
}

// grammarDocument lays the rules out as one table per group.
func grammarDocument(defs []chronic.Definition) *richtext.Document {
	doc := &richtext.Document{}
	doc.Heading(1, "Grammar")

	byGroup := make(map[string][][]string)
	var groups []string
	for _, d := range defs {
		if _, seen := byGroup[d.Group]; !seen {
			groups = append(groups, d.Group)
		}
		byGroup[d.Group] = append(byGroup[d.Group], []string{d.Name, richtext.Code(d.Pattern)})
	}

	for _, g := range groups {
		doc.Heading(2, g)
		if blurb := groupBlurbs[g]; blurb != "" {
			doc.Paragraph(blurb)
		}
		doc.Table([]string{"Rule", "Pattern"}, byGroup[g])
	}
	return doc
}
