package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/basecamp/when/internal/appctx"
	"github.com/basecamp/when/internal/config"
	"github.com/basecamp/when/internal/humanize"
	"github.com/basecamp/when/internal/output"
	"github.com/basecamp/when/internal/tui"
)

// NewConfigCmd creates the config command for managing configuration.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage when configuration.

Configuration is loaded from multiple sources with the following precedence:
  flags > env > local > repo > global > system > defaults

Config locations:
  - System: /etc/when/config.json
  - Global: ~/.config/when/config.json
  - Repo:   <git-root>/.when/config.json
  - Local:  .when/config.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigInitCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
	)

	return cmd
}

// ConfigValue is one effective setting and where it came from.
type ConfigValue struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  "Display the current effective configuration with source information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	app := appctx.FromContext(cmd.Context())
	values := effectiveConfig(app.Config)

	return app.OK(values,
		output.WithSummary("Effective configuration"),
		output.WithBreadcrumbs(
			output.Breadcrumb{
				Action:      "set",
				Cmd:         "when config set <key> <value>",
				Description: "Set config value",
			},
			output.Breadcrumb{
				Action:      "init",
				Cmd:         "when config init",
				Description: "Create a config file",
			},
		),
	)
}

func effectiveConfig(cfg *config.Config) []ConfigValue {
	var values []ConfigValue
	for _, k := range config.Keys() {
		v, ok := k.Value(cfg)
		if !ok {
			continue
		}
		source := cfg.Sources[k.Name]
		if source == "" {
			source = string(config.SourceDefault)
		}
		values = append(values, ConfigValue{
			Key:         k.Name,
			Value:       v,
			Source:      source,
			Description: k.Description,
		})
	}
	return values
}

// configPath returns the file a write goes to and its scope name.
func configPath(global bool) (string, string) {
	if global {
		return config.GlobalConfigPath(), "global"
	}
	return config.LocalConfigPath(), "local"
}

func unknownKeyError(key string) error {
	return output.ErrUsageHint(
		fmt.Sprintf("Invalid config key %q", key),
		"Valid keys: "+strings.Join(config.KeyNames(), ", "),
	)
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.KeyNames(), cobra.ShellCompDirectiveNoFileComp
}

func newConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the local or global config file.

Valid keys: ` + strings.Join(config.KeyNames(), ", "),
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			key, raw := args[0], args[1]

			if _, ok := config.LookupKey(key); !ok {
				return unknownKeyError(key)
			}

			path, scope := configPath(global)
			value, err := config.SetValue(path, key, raw)
			if err != nil {
				return output.ErrUsage(err.Error())
			}

			return app.OK(map[string]any{
				"key":    key,
				"value":  value,
				"scope":  scope,
				"path":   path,
				"status": "set",
			},
				output.WithSummary(fmt.Sprintf("Set %s = %v (%s)", key, value, scope)),
				output.WithBreadcrumbs(
					output.Breadcrumb{
						Action:      "show",
						Cmd:         "when config show",
						Description: "View config",
					},
				),
			)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Set in global config (~/.config/when/)")

	return cmd
}

func newConfigUnsetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:               "unset <key>",
		Short:             "Unset a configuration value",
		Long:              "Remove a configuration value from the local or global config file.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			key := args[0]

			if _, ok := config.LookupKey(key); !ok {
				return unknownKeyError(key)
			}

			path, scope := configPath(global)
			removed, err := config.UnsetValue(path, key)
			if err != nil {
				return output.ErrConfig(fmt.Sprintf("Cannot update %s", path), err)
			}
			if !removed {
				return app.OK(map[string]any{
					"key":    key,
					"scope":  scope,
					"status": "not_set",
				}, output.WithSummary(fmt.Sprintf("Key not set: %s", key)))
			}

			return app.OK(map[string]any{
				"key":    key,
				"scope":  scope,
				"status": "unset",
			},
				output.WithSummary(fmt.Sprintf("Unset %s (%s)", key, scope)),
				output.WithBreadcrumbs(
					output.Breadcrumb{
						Action:      "show",
						Cmd:         "when config show",
						Description: "View config",
					},
				),
			)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Unset from global config")

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file",
		Long: `Create a config file holding the current settings.

On a terminal a short form asks for each setting. Otherwise the effective
parser settings are written as they are. The file is local to the current
directory unless --global is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())

			answers := initAnswers(app.Config, global)
			if app.IsInteractive() {
				if err := tui.RunInitForm(answers, humanize.Locales()); err != nil {
					return output.ErrUsage("config init canceled")
				}
			}
			path, scope := configPath(answers.Scope == "global")

			if _, err := os.Stat(path); err == nil && !force {
				return app.OK(map[string]any{
					"exists": true,
					"path":   path,
				},
					output.WithSummary(fmt.Sprintf("Config file already exists: %s", path)),
					output.WithBreadcrumbs(output.Breadcrumb{
						Action:      "force",
						Cmd:         "when config init --force",
						Description: "Overwrite it",
					}),
				)
			}

			values, err := parseAnswers(answers.Values())
			if err != nil {
				return err
			}
			if err := config.WriteFile(path, values); err != nil {
				return output.ErrConfig(fmt.Sprintf("Cannot write %s", path), err)
			}

			return app.OK(map[string]any{
				"created": true,
				"path":    path,
				"scope":   scope,
				"values":  values,
			},
				output.WithSummary(fmt.Sprintf("Created: %s", path)),
				output.WithBreadcrumbs(
					output.Breadcrumb{
						Action:      "show",
						Cmd:         "when config show",
						Description: "View config",
					},
				),
			)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Write the global config (~/.config/when/)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

// initAnswers seeds the init form with the effective configuration.
func initAnswers(cfg *config.Config, global bool) *tui.InitAnswers {
	scope := "local"
	if global {
		scope = "global"
	}
	return &tui.InitAnswers{
		Scope:          scope,
		Context:        cfg.Context,
		AmbiguousRange: strconv.Itoa(cfg.AmbiguousTimeRange),
		Guess:          cfg.Guess,
		Timezone:       cfg.Timezone,
		Locale:         cfg.Locale,
	}
}

// parseAnswers validates raw form values through the key registry.
func parseAnswers(raw map[string]string) (map[string]any, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]any, len(raw))
	var errs []error
	for _, name := range names {
		k, ok := config.LookupKey(name)
		if !ok {
			return nil, unknownKeyError(name)
		}
		v, err := k.Parse(raw[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[name] = v
	}
	if len(errs) > 0 {
		return nil, output.ErrUsage(errors.Join(errs...).Error())
	}
	return values, nil
}
