package commands

import (
	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/output"
)

// CommandInfo describes a CLI command.
type CommandInfo struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Actions     []string `json:"actions,omitempty"`
}

// CommandCategory groups commands by category.
type CommandCategory struct {
	Name     string        `json:"name"`
	Commands []CommandInfo `json:"commands"`
}

// commandCategories returns all command categories for the catalog.
func commandCategories() []CommandCategory {
	return []CommandCategory{
		{
			Name: "Parsing",
			Commands: []CommandInfo{
				{Name: "parse", Category: "parse", Description: "Resolve a time expression to a span"},
				{Name: "guess", Category: "parse", Description: "Print the single instant an expression stands for"},
				{Name: "date", Category: "parse", Description: "Resolve an expression to a YYYY-MM-DD date"},
			},
		},
		{
			Name: "Inspection",
			Commands: []CommandInfo{
				{Name: "tokens", Category: "inspect", Description: "Show normalization and tags"},
				{Name: "grammar", Category: "inspect", Description: "List the grammar rules"},
				{Name: "try", Category: "inspect", Description: "Parse interactively as you type"},
				{Name: "history", Category: "inspect", Description: "Show recent expressions", Actions: []string{"list", "clear"}},
			},
		},
		{
			Name: "Additional Commands",
			Commands: []CommandInfo{
				{Name: "config", Category: "additional", Description: "Manage configuration", Actions: []string{"show", "set", "unset", "init"}},
				{Name: "completion", Category: "additional", Description: "Generate shell completions", Actions: []string{"bash", "zsh", "fish", "powershell"}},
				{Name: "commands", Category: "additional", Description: "List all commands"},
				{Name: "version", Category: "additional", Description: "Show version"},
				{Name: "help", Category: "additional", Description: "Help about any command"},
			},
		},
	}
}

// CatalogCommandNames returns all command names from the catalog.
// Used by tests to verify catalog matches registered commands.
func CatalogCommandNames() []string {
	categories := commandCategories()
	total := 0
	for _, cat := range categories {
		total += len(cat.Commands)
	}
	names := make([]string, 0, total)
	for _, cat := range categories {
		for _, cmd := range cat.Commands {
			names = append(names, cmd.Name)
		}
	}
	return names
}

// All returns every subcommand of the root command.
func All() []*cobra.Command {
	return []*cobra.Command{
		NewParseCmd(),
		NewGuessCmd(),
		NewDateCmd(),
		NewTokensCmd(),
		NewGrammarCmd(),
		NewTryCmd(),
		NewHistoryCmd(),
		NewConfigCmd(),
		NewCompletionCmd(),
		NewCommandsCmd(),
		NewVersionCmd(),
	}
}

// NewCommandsCmd creates the commands listing command.
func NewCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "commands",
		Aliases: []string{"cmds"},
		Short:   "List all available commands",
		Long:    "List all available when commands organized by category.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			return app.OK(commandCategories(),
				output.WithSummary("All available when commands"),
				output.WithBreadcrumbs(
					output.Breadcrumb{
						Action:      "help",
						Cmd:         "when --help",
						Description: "View help",
					},
				),
			)
		},
	}
}
