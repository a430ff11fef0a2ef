package cli

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/commands"
	"github.com/basecamp/when/internal/config"
	"github.com/basecamp/when/internal/humanize"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/version"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags

	cmd := &cobra.Command{
		Use:   "when [expression...]",
		Short: "Resolve English time expressions",
		Long: `when turns English time expressions such as "next friday at 5pm",
"3 years ago" or "the 3rd monday in may" into concrete times.

Called with an expression and no subcommand it behaves like "when parse".`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          commands.RunParse,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help
			if cmd.Name() == "help" {
				return nil
			}

			overrides := flagOverrides(cmd, flags)
			cfg, err := config.Load(overrides)
			if err != nil {
				return output.ErrConfig(err.Error(), err)
			}

			app, err := appctx.NewApp(cfg)
			if err != nil {
				return err
			}
			app.Flags = flags
			app.Overrides = overrides
			app.Stdout = cmd.OutOrStdout()
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	// Allow flags anywhere in the command line
	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	// Output format flags
	cmd.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")
	cmd.PersistentFlags().BoolVarP(&flags.MD, "md", "m", false, "Output as Markdown (portable)")
	cmd.PersistentFlags().BoolVar(&flags.MD, "markdown", false, "Output as Markdown (portable)")
	cmd.PersistentFlags().BoolVar(&flags.Styled, "styled", false, "Force styled output (ANSI colors)")
	cmd.PersistentFlags().BoolVar(&flags.Count, "count", false, "Output only count")
	cmd.PersistentFlags().BoolVar(&flags.Agent, "agent", false, "Agent mode (JSON + quiet)")
	cmd.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Filter JSON output through a jq program")

	// Parser flags
	cmd.PersistentFlags().StringVar(&flags.Now, "now", "", "Reference time (RFC 3339 or 2006-01-02 15:04:05)")
	cmd.PersistentFlags().StringVarP(&flags.Context, "context", "c", "", "Direction for bare expressions: past, future or none")
	cmd.PersistentFlags().IntVar(&flags.AmbiguousRange, "ambiguous-range", 0, "Bare hours below this read as pm (0 disables)")
	cmd.PersistentFlags().BoolVar(&flags.NoGuess, "no-guess", false, "Report the full span instead of one instant")
	cmd.PersistentFlags().BoolVar(&flags.Compat, "compat", false, "Use legacy month and day-portion disambiguation")
	cmd.PersistentFlags().StringVar(&flags.Timezone, "tz", "", "IANA time zone for the reference time")
	cmd.PersistentFlags().StringVar(&flags.Locale, "locale", "", "Locale for relative descriptions")

	// Behavior flags
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (-v for outcomes, -vv for stages)")
	cmd.PersistentFlags().BoolVar(&flags.Stats, "stats", false, "Show session statistics")
	cmd.PersistentFlags().StringVar(&flags.CacheDir, "cache-dir", "", "Cache directory")
	cmd.PersistentFlags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record this run in the history")

	_ = cmd.RegisterFlagCompletionFunc("context", cobra.FixedCompletions(
		[]string{"future", "past", "none"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("locale", cobra.FixedCompletions(
		humanize.Locales(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// flagOverrides collects the parser flags that were set. Flags whose zero
// value is meaningful only count when given explicitly.
func flagOverrides(cmd *cobra.Command, flags appctx.GlobalFlags) config.FlagOverrides {
	o := config.FlagOverrides{
		Context:  strings.ToLower(flags.Context),
		Timezone: flags.Timezone,
		Locale:   flags.Locale,
		CacheDir: flags.CacheDir,
	}
	pf := cmd.Flags()
	if pf.Changed("ambiguous-range") {
		n := flags.AmbiguousRange
		o.AmbiguousRange = &n
	}
	if flags.NoGuess {
		guess := false
		o.Guess = &guess
	}
	if pf.Changed("compat") {
		compat := flags.Compat
		o.Compat = &compat
	}
	return o
}

// Execute runs the root command and exits with the code for any error.
func Execute() {
	cmd := NewRootCmd()
	cmd.AddCommand(commands.All()...)
	os.Exit(run(context.Background(), cmd))
}

// run executes cmd and writes any error, returning the exit code.
func run(ctx context.Context, cmd *cobra.Command) int {
	// Use ExecuteC to get the executed command (for correct context access)
	executedCmd, err := cmd.ExecuteContextC(ctx)
	if err == nil {
		return output.ExitOK
	}

	err = transformCobraError(err)
	apiErr := output.AsError(err)

	// Try to use app.Err() if app is available (for --stats support)
	if executedCmd != nil {
		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
			return apiErr.ExitCode()
		}
	}

	// Fallback: output error directly (app not available, e.g., during setup)
	writer := output.New(output.Options{
		Format: fallbackFormat(cmd.PersistentFlags()),
		Writer: cmd.OutOrStdout(),
	})
	_ = writer.Err(err)
	return apiErr.ExitCode()
}

// fallbackFormat reads the output flags when setup failed before the app
// existed.
func fallbackFormat(pf *pflag.FlagSet) output.Format {
	agent, _ := pf.GetBool("agent")
	quiet, _ := pf.GetBool("quiet")
	count, _ := pf.GetBool("count")
	styled, _ := pf.GetBool("styled")
	md, _ := pf.GetBool("md")
	jsonFlag, _ := pf.GetBool("json")
	jq, _ := pf.GetString("jq")

	switch {
	case agent || quiet:
		return output.FormatQuiet
	case count:
		return output.FormatCount
	case jsonFlag || jq != "":
		return output.FormatJSON
	case styled:
		return output.FormatStyled
	case md:
		return output.FormatMarkdown
	}
	return output.FormatAuto
}

var shorthandFlagPattern = regexp.MustCompile(`unknown shorthand flag: '.' in (-\w)`)

// transformCobraError rewrites cobra's error strings as usage errors.
func transformCobraError(err error) error {
	msg := err.Error()

	// "flag needs an argument: --FLAG" → "--FLAG requires a value"
	if strings.HasPrefix(msg, "flag needs an argument: ") {
		flag := strings.TrimPrefix(msg, "flag needs an argument: ")
		return output.ErrUsage(flag + " requires a value")
	}

	// "unknown flag: --FLAG" → "Unknown option: --FLAG"
	if strings.HasPrefix(msg, "unknown flag: ") {
		flag := strings.TrimPrefix(msg, "unknown flag: ")
		return output.ErrUsage("Unknown option: " + flag)
	}

	// "unknown shorthand flag: 'X' in -X" → "Unknown option: -X"
	if strings.HasPrefix(msg, "unknown shorthand flag: ") {
		if matches := shorthandFlagPattern.FindStringSubmatch(msg); len(matches) > 1 {
			return output.ErrUsage("Unknown option: " + matches[1])
		}
	}

	if strings.HasPrefix(msg, "unknown command ") {
		return output.ErrUsageHint(msg, "Run: when commands")
	}

	if strings.Contains(msg, "invalid argument") {
		return output.ErrUsage(msg)
	}

	// "requires at least 1 arg(s)" → expression required
	if strings.Contains(msg, "requires at least") && strings.Contains(msg, "arg(s)") {
		return output.ErrUsageHint("Expression required", "Example: when next friday at 5pm")
	}

	if strings.Contains(msg, "accepts") && strings.Contains(msg, "arg(s), received") {
		return output.ErrUsage(msg)
	}
	if strings.HasPrefix(msg, "unknown shell") {
		return output.ErrUsage(msg)
	}

	return err
}
