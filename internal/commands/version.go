package commands

import (
	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				_, err := cmd.OutOrStdout().Write([]byte(version.Full() + "\n"))
				return err
			}
			return app.OK(version.Info(), output.WithSummary(version.Full()))
		},
	}
}
