package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompletionCmd creates the completion command group.
func NewCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for when.

To load completions:

Bash:
  $ source <(when completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ when completion bash > /etc/bash_completion.d/when
  # macOS:
  $ when completion bash > $(brew --prefix)/etc/bash_completion.d/when

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ when completion zsh > "${fpath[1]}/_when"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ when completion fish | source

  # To load completions for each session, execute once:
  $ when completion fish > ~/.config/fish/completions/when.fish

PowerShell:
  PS> when completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> when completion powershell > when.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	for _, shell := range []struct{ name, short string }{
		{"bash", "Generate bash completion script"},
		{"zsh", "Generate zsh completion script"},
		{"fish", "Generate fish completion script"},
		{"powershell", "Generate powershell completion script"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:                   shell.name,
			Short:                 shell.short,
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCompletion(cmd, shell.name)
			},
		})
	}

	return cmd
}

func runCompletion(cmd *cobra.Command, shell string) error {
	root, out := cmd.Root(), cmd.OutOrStdout()
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unknown shell: %s", shell)
	}
}
