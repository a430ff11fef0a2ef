package humanize

import (
	"testing"
	"time"
)

var ref = time.Date(2006, 8, 16, 14, 0, 0, 0, time.UTC)

func TestLocaleDetection(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"en_US.UTF-8", "en-US"},
		{"de_DE.UTF-8", "de-DE"},
		{"fr_FR.ISO8859-1", "fr-FR"},
		{"es_ES@euro", "es-ES"},
		{"ja_JP.UTF-8", "ja-JP"},
		{"C", "en-US"},
		{"", "en-US"},
	}

	for _, tt := range tests {
		got := NewLocale(tt.raw).String()
		if got != tt.want {
			t.Errorf("NewLocale(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDetectLocalePrecedence(t *testing.T) {
	t.Setenv("LANG", "fr_FR.UTF-8")
	t.Setenv("LC_TIME", "de_DE.UTF-8")
	t.Setenv("LC_ALL", "")

	if got := DetectLocale().String(); got != "de-DE" {
		t.Errorf("LC_TIME should win over LANG, got %q", got)
	}

	t.Setenv("LC_ALL", "es_ES.UTF-8")
	if got := DetectLocale().String(); got != "es-ES" {
		t.Errorf("LC_ALL should win, got %q", got)
	}
}

func TestResolveLocale(t *testing.T) {
	t.Setenv("LC_ALL", "de_DE.UTF-8")

	if got := ResolveLocale("fr").String(); got != "fr" {
		t.Errorf("configured locale should win, got %q", got)
	}
	if got := ResolveLocale("").String(); got != "de-DE" {
		t.Errorf("empty config should detect from env, got %q", got)
	}
}

func TestLocaleDateFormats(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "Mar 15, 2026"},
		{"en-GB", "15 Mar 2026"},
		{"de-DE", "15. Mar 2026"},
		{"ja-JP", "2026-03-15"},
	}

	for _, tt := range tests {
		if got := NewLocale(tt.locale).FormatDate(date); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestLocaleNumberFormats(t *testing.T) {
	tests := []struct {
		locale string
		value  int64
		want   string
	}{
		{"en-US", 42, "42"},
		{"en-US", 1000000, "1,000,000"},
		{"de-DE", 1000000, "1.000.000"},
		{"fr-FR", 1234, "1\u00a0234"},
	}

	for _, tt := range tests {
		if got := NewLocale(tt.locale).FormatNumber(tt.value); got != tt.want {
			t.Errorf("FormatNumber(%d, %q) = %q, want %q", tt.value, tt.locale, got, tt.want)
		}
	}
}

func TestRelative(t *testing.T) {
	tests := []struct {
		locale string
		to     time.Time
		want   string
	}{
		{"en", ref, "just now"},
		{"en", ref.Add(500 * time.Millisecond), "just now"},
		{"en", ref.Add(time.Second), "in 1 second"},
		{"en", ref.Add(-45 * time.Second), "45 seconds ago"},
		{"en", ref.Add(90 * time.Minute), "in 1 hour"},
		{"en", ref.AddDate(0, 0, 2), "in 2 days"},
		{"en", ref.AddDate(0, 0, -3), "3 days ago"},
		{"en", ref.AddDate(0, 0, 14), "in 2 weeks"},
		{"en", ref.AddDate(0, 3, 0), "in 3 months"},
		{"en", ref.AddDate(-2, 0, 0), "2 years ago"},
		{"en", ref.AddDate(-2000, 0, 0), "2,001 years ago"},
		{"de", ref.AddDate(0, 0, 3), "in 3 Tagen"},
		{"de", ref.Add(-time.Hour), "vor 1 Stunde"},
		{"fr", ref.AddDate(0, 0, -3), "il y a 3 jours"},
		{"fr", ref.Add(2 * time.Minute), "dans 2 minutes"},
		{"es", ref.AddDate(0, 0, 1), "dentro de 1 día"},
		{"es", ref.AddDate(0, -5, 0), "hace 5 meses"},
	}

	for _, tt := range tests {
		f, err := New(NewLocale(tt.locale))
		if err != nil {
			t.Fatalf("New(%q): %v", tt.locale, err)
		}
		if got := f.Relative(ref, tt.to); got != tt.want {
			t.Errorf("Relative[%s](%v) = %q, want %q", tt.locale, tt.to.Sub(ref), got, tt.want)
		}
	}
}

func TestFormatterFallsBackToEnglish(t *testing.T) {
	f, err := New(NewLocale("ja-JP"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Language() != "en" {
		t.Errorf("Language() = %q, want en", f.Language())
	}
	if got := f.Relative(ref, ref.AddDate(0, 0, 1)); got != "in 1 day" {
		t.Errorf("Relative = %q", got)
	}
	if got := f.Date(ref); got != "2006-08-16" {
		t.Errorf("Date keeps the locale's order, got %q", got)
	}
}

func TestFormatterMatchesRegionalVariants(t *testing.T) {
	f, err := New(NewLocale("de_AT.UTF-8"))
	if err != nil {
		t.Fatal(err)
	}
	if f.Language() != "de" {
		t.Errorf("de-AT should use the German table, got %q", f.Language())
	}
}

func TestLocales(t *testing.T) {
	got := Locales()
	want := []string{"en", "de", "es", "fr"}
	if len(got) != len(want) {
		t.Fatalf("Locales() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Locales()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEmbeddedTablesAreComplete(t *testing.T) {
	catalog.load()
	if catalog.loadErr != nil {
		t.Fatal(catalog.loadErr)
	}
	for name, table := range catalog.tables {
		if err := table.validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
