package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/basecamp/when/internal/config"
)

// Confirm shows a yes/no confirmation prompt.
func Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&result).
		Run()
	if err != nil {
		return defaultValue, err
	}
	return result, nil
}

// SelectOption represents an option in a select prompt.
type SelectOption struct {
	Value string
	Label string
}

func huhOptions(options []SelectOption) []huh.Option[string] {
	out := make([]huh.Option[string], len(options))
	for i, opt := range options {
		out[i] = huh.NewOption(opt.Label, opt.Value)
	}
	return out
}

// InitAnswers holds the values collected by the config init form. String
// fields hold raw input; they are validated through the config key registry.
type InitAnswers struct {
	Scope          string
	Context        string
	AmbiguousRange string
	Guess          bool
	Timezone       string
	Locale         string
}

// validateKey checks raw input the way `config set` would.
func validateKey(name string) func(string) error {
	return func(raw string) error {
		if raw == "" {
			return nil
		}
		k, ok := config.LookupKey(name)
		if !ok {
			return nil
		}
		_, err := k.Parse(raw)
		return err
	}
}

// InitForm builds the config init form over a. Fields start at a's
// current values.
func InitForm(a *InitAnswers, locales []string) *huh.Form {
	localeOptions := []SelectOption{{Value: "", Label: "Detect from environment"}}
	for _, l := range locales {
		localeOptions = append(localeOptions, SelectOption{Value: l, Label: l})
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should the config be saved?").
				Options(huhOptions([]SelectOption{
					{Value: "global", Label: "Global (" + config.GlobalConfigPath() + ")"},
					{Value: "local", Label: "Local (" + config.LocalConfigPath() + ")"},
				})...).
				Value(&a.Scope),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Ambiguous dates resolve to the").
				Options(huhOptions([]SelectOption{
					{Value: "future", Label: "Future"},
					{Value: "past", Label: "Past"},
					{Value: "none", Label: "Current period"},
				})...).
				Value(&a.Context),
			huh.NewInput().
				Title("Ambiguous time range").
				Description("Bare hours up to this value read as pm (0 disables)").
				Value(&a.AmbiguousRange).
				Validate(validateKey("ambiguous_time_range")),
			huh.NewConfirm().
				Title("Collapse results to a single instant?").
				Affirmative("Yes").
				Negative("No, show spans").
				Value(&a.Guess),
		).Title("Parsing"),
		huh.NewGroup(
			huh.NewInput().
				Title("Time zone").
				Placeholder("Local").
				Description("IANA name, e.g. Europe/Berlin").
				Value(&a.Timezone).
				Validate(validateKey("timezone")),
			huh.NewSelect[string]().
				Title("Locale for relative times").
				Options(huhOptions(localeOptions)...).
				Value(&a.Locale),
		).Title("Presentation"),
	)
}

// RunInitForm runs the config init form.
func RunInitForm(a *InitAnswers, locales []string) error {
	return InitForm(a, locales).Run()
}

// Values returns the answers as config keys and raw values, skipping
// empty inputs.
func (a *InitAnswers) Values() map[string]string {
	values := map[string]string{
		"context": a.Context,
		"guess":   boolString(a.Guess),
	}
	if a.AmbiguousRange != "" {
		values["ambiguous_time_range"] = a.AmbiguousRange
	}
	if a.Timezone != "" {
		values["timezone"] = a.Timezone
	}
	if a.Locale != "" {
		values["locale"] = a.Locale
	}
	return values
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
