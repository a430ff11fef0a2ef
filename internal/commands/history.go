package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/history"
	"github.com/basecamp/when/internal/output"
)

// NewHistoryCmd creates the history command group.
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently resolved expressions",
		Long: `Show expressions that resolved successfully, newest first.

History is kept in the cache directory and shared by concurrent runs.
Disable it with "when config set history false" or --no-history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to show (0 for all)")

	cmd.AddCommand(newHistoryListCmd(), newHistoryClearCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries to show (0 for all)")
	return cmd
}

func runHistoryList(cmd *cobra.Command, limit int) error {
	app := appctx.FromContext(cmd.Context())
	store, err := historyStore(app)
	if err != nil {
		return err
	}
	if limit < 0 {
		return output.ErrUsage("--limit must not be negative")
	}
	if err := store.LastError(); err != nil {
		app.Logger.Debug("history load failed", "path", store.Path(), "error", err)
	}

	entries := store.List(limit)
	if entries == nil {
		entries = []history.Entry{}
	}
	return app.OK(entries,
		output.WithSummary(fmt.Sprintf("%d recent expressions", len(entries))),
		output.WithContext("path", store.Path()),
		output.WithBreadcrumbs(output.Breadcrumb{
			Action:      "clear",
			Cmd:         "when history clear",
			Description: "Forget all entries",
		}),
	)
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all recent expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			store, err := historyStore(app)
			if err != nil {
				return err
			}

			cleared := store.Len()
			if err := store.Clear(); err != nil {
				return output.ErrInternal(err)
			}
			return app.OK(map[string]any{
				"cleared": cleared,
				"path":    store.Path(),
			}, output.WithSummary(fmt.Sprintf("Cleared %d entries", cleared)))
		},
	}
}

// historyStore returns the app's store, or the store on disk when recording
// is turned off so past entries can still be listed and cleared.
func historyStore(app *appctx.App) (*history.Store, error) {
	if app.History != nil {
		return app.History, nil
	}
	if app.Config.CacheDir == "" {
		return nil, output.ErrConfig("No cache directory configured", nil)
	}
	return history.NewStore(app.Config.CacheDir, app.Config.HistorySize), nil
}
