package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"

	"github.com/basecamp/when/internal/config"
)

// ResolveTheme picks the palette:
//  1. NO_COLOR set: NoColorTheme
//  2. WHEN_THEME: path to a colors.toml file
//  3. $XDG_CONFIG_HOME/when/theme/colors.toml
//  4. DefaultTheme
//
// The theme directory can be a symlink to a terminal theme:
//
//	ln -s ~/.config/omarchy/current/theme ~/.config/when/theme
func ResolveTheme() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoColorTheme()
	}
	if path := os.Getenv("WHEN_THEME"); path != "" {
		if theme, err := LoadThemeFromFile(path); err == nil {
			return theme
		}
	}
	if theme, err := LoadUserTheme(); err == nil {
		return theme
	}
	return DefaultTheme()
}

// UserThemePath returns the colors.toml location under the config dir.
func UserThemePath() string {
	return filepath.Join(config.GlobalConfigDir(), "theme", "colors.toml")
}

// LoadUserTheme loads the theme at UserThemePath.
func LoadUserTheme() (Theme, error) {
	return LoadThemeFromFile(UserThemePath())
}

// LoadThemeFromFile reads a colors.toml file. Terminal color keys are
// mapped onto the palette first, then a [when] table may set any slot
// by name:
//
//	accent = "#89b4fa"
//	color2 = "#a6e3a1"
//
//	[when]
//	handler = "#cba6f7"
func LoadThemeFromFile(path string) (Theme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path from trusted config
	if err != nil {
		return Theme{}, err
	}
	colors, slots, err := parseColors(data)
	if err != nil {
		return Theme{}, err
	}
	return mapColorsToTheme(colors, slots), nil
}

// parseColors decodes a colors.toml document into its top-level hex colors
// and the hex colors of its [when] table. Other values are ignored.
func parseColors(data []byte) (colors, slots map[string]string, err error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing theme: %w", err)
	}
	colors = hexValues(raw)
	if table, ok := raw["when"].(map[string]any); ok {
		slots = hexValues(table)
	}
	return colors, slots, nil
}

func hexValues(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for key, v := range raw {
		if s, ok := v.(string); ok && isValidHexColor(s) {
			out[key] = s
		}
	}
	return out
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func isValidHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// paletteSlots maps each slot to its [when] key and the terminal color
// keys it falls back to, most preferred first.
var paletteSlots = []struct {
	name     string
	terminal []string
	slot     func(*Theme) *lipgloss.AdaptiveColor
}{
	{"accent", []string{"accent", "color4"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Accent }},
	{"text", []string{"foreground"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Text }},
	{"muted", []string{"color8", "color0"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Muted }},
	{"tag", []string{"color7"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Tag }},
	{"handler", []string{"color3"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Handler }},
	{"guess", []string{"color2"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Guess }},
	{"error", []string{"color1"}, func(t *Theme) *lipgloss.AdaptiveColor { return &t.Error }},
}

// mapColorsToTheme overlays parsed colors on DefaultTheme. Terminal themes
// are dark, so only the Dark variants change.
func mapColorsToTheme(colors, slots map[string]string) Theme {
	theme := DefaultTheme()
	for _, p := range paletteSlots {
		c := p.slot(&theme)
		if v, ok := slots[p.name]; ok {
			c.Dark = v
			continue
		}
		for _, key := range p.terminal {
			if v, ok := colors[key]; ok {
				c.Dark = v
				break
			}
		}
	}
	return theme
}
