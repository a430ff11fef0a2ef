package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantColor map[string]string
		wantSlots map[string]string
		wantErr   bool
	}{
		{
			name: "terminal colors",
			input: `# Catppuccin
accent = "#89b4fa" # blue
color2 = '#a6e3a1'
background = "#1e1e2e"`,
			wantColor: map[string]string{"accent": "#89b4fa", "color2": "#a6e3a1", "background": "#1e1e2e"},
		},
		{
			name: "invalid values skipped",
			input: `accent = "#89b4fa"
bad = "not-a-color"
hex = "#gggggg"
opacity = 0.9

[cursor]
color = "#ffffff"`,
			wantColor: map[string]string{"accent": "#89b4fa"},
		},
		{
			name: "when table",
			input: `color3 = "#f9e2af"

[when]
handler = "#cba6f7"
guess = "#abc"
nope = 12`,
			wantColor: map[string]string{"color3": "#f9e2af"},
			wantSlots: map[string]string{"handler": "#cba6f7", "guess": "#abc"},
		},
		{name: "empty input", input: "", wantColor: map[string]string{}},
		{name: "unquoted value", input: `accent = #89b4fa`, wantErr: true},
		{name: "missing equals", input: `accent`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colors, slots, err := parseColors([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColor, colors)
			if tt.wantSlots == nil {
				assert.Empty(t, slots)
			} else {
				assert.Equal(t, tt.wantSlots, slots)
			}
		})
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"#fff", true},
		{"#ABC123", true},
		{"fff", false},
		{"#gg0000", false},
		{"#12345", false},
		{"#1234567", false},
		{"#", false},
		{"red", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidHexColor(tt.input))
		})
	}
}

func TestMapColorsToTheme(t *testing.T) {
	defaults := DefaultTheme()

	t.Run("terminal keys", func(t *testing.T) {
		theme := mapColorsToTheme(map[string]string{
			"accent":     "#89b4fa",
			"foreground": "#cdd6f4",
			"color1":     "#f38ba8",
			"color2":     "#a6e3a1",
			"color3":     "#f9e2af",
			"color7":     "#bac2de",
			"color8":     "#585b70",
		}, nil)

		assert.Equal(t, "#89b4fa", theme.Accent.Dark)
		assert.Equal(t, "#cdd6f4", theme.Text.Dark)
		assert.Equal(t, "#f38ba8", theme.Error.Dark)
		assert.Equal(t, "#a6e3a1", theme.Guess.Dark)
		assert.Equal(t, "#f9e2af", theme.Handler.Dark)
		assert.Equal(t, "#bac2de", theme.Tag.Dark)
		assert.Equal(t, "#585b70", theme.Muted.Dark)
		assert.Equal(t, defaults.Accent.Light, theme.Accent.Light, "light variants keep defaults")
	})

	t.Run("fallback keys", func(t *testing.T) {
		theme := mapColorsToTheme(map[string]string{"color4": "#0000ff", "color0": "#111111"}, nil)
		assert.Equal(t, "#0000ff", theme.Accent.Dark)
		assert.Equal(t, "#111111", theme.Muted.Dark)
	})

	t.Run("when table wins", func(t *testing.T) {
		theme := mapColorsToTheme(
			map[string]string{"color3": "#f9e2af"},
			map[string]string{"handler": "#cba6f7"},
		)
		assert.Equal(t, "#cba6f7", theme.Handler.Dark)
	})

	t.Run("empty keeps defaults", func(t *testing.T) {
		assert.Equal(t, defaults, mapColorsToTheme(nil, nil))
	})
}

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colors.toml")
	require.NoError(t, os.WriteFile(path, []byte("accent = \"#89b4fa\"\n\n[when]\nerror = \"#ff0000\"\n"), 0644))

	theme, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#89b4fa", theme.Accent.Dark)
	assert.Equal(t, "#ff0000", theme.Error.Dark)

	_, err = LoadThemeFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func unsetenvForTest(t *testing.T, key string) {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	os.Unsetenv(key)
	if existed {
		t.Cleanup(func() { os.Setenv(key, prev) })
	}
}

func TestResolveTheme(t *testing.T) {
	t.Run("NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, Theme{}, ResolveTheme())
	})

	t.Run("WHEN_THEME", func(t *testing.T) {
		unsetenvForTest(t, "NO_COLOR")
		path := filepath.Join(t.TempDir(), "custom.toml")
		require.NoError(t, os.WriteFile(path, []byte(`accent = "#ff0000"`), 0644))
		t.Setenv("WHEN_THEME", path)

		assert.Equal(t, "#ff0000", ResolveTheme().Accent.Dark)
	})

	t.Run("WHEN_THEME missing falls back", func(t *testing.T) {
		unsetenvForTest(t, "NO_COLOR")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("WHEN_THEME", "/nonexistent/theme.toml")

		assert.Equal(t, DefaultTheme(), ResolveTheme())
	})

	t.Run("user theme", func(t *testing.T) {
		unsetenvForTest(t, "NO_COLOR")
		unsetenvForTest(t, "WHEN_THEME")
		configHome := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", configHome)

		dir := filepath.Join(configHome, "when", "theme")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "colors.toml"), []byte(`accent = "#00ff00"`), 0644))

		assert.Equal(t, filepath.Join(dir, "colors.toml"), UserThemePath())
		assert.Equal(t, "#00ff00", ResolveTheme().Accent.Dark)
	})
}

func TestNewStylesRenderToken(t *testing.T) {
	s := NewStyles(NoColorTheme())
	out := s.RenderToken("may", []string{"repeater(month_name)", "scalar_year"})
	assert.Contains(t, out, "may")
	assert.Contains(t, out, "repeater(month_name)")
	assert.NotContains(t, s.RenderToken("at", nil), " ")
}
