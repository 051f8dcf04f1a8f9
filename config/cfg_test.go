package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"

	"github.com/Whale619/novel-site/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	r := cfg.Reader
	if r.DefaultFontSize != common.FontTierMedium || r.DefaultTheme != common.ThemeDark {
		t.Errorf("defaults = %s/%s", r.DefaultFontSize, r.DefaultTheme)
	}
	if r.StorageKeys.FontSize != "readerFontSize" || r.StorageKeys.Theme != "readerTheme" {
		t.Errorf("storage keys = %+v", r.StorageKeys)
	}
	if r.BackToTopThreshold != 200 || r.Breakpoint != 768 || r.NarrowViewportIsMobile {
		t.Errorf("threshold = %d, breakpoint = %d, narrow = %v", r.BackToTopThreshold, r.Breakpoint, r.NarrowViewportIsMobile)
	}
	want := FontSizes{
		"desktop": {"small": 16, "medium": 18, "large": 20},
		"mobile":  {"small": 18, "medium": 20, "large": 22},
	}
	for d, tiers := range want {
		for n, px := range tiers {
			if got := r.FontSizes[d][n]; got != px {
				t.Errorf("font size %s/%s = %d, want %d", d, n, got, px)
			}
		}
	}
	if r.Elements.FontSelector != "fontSizeSelector" || r.Elements.ChapterList != "chapter-list" || r.Elements.BackToTop != "back-to-top" {
		t.Errorf("elements = %+v", r.Elements)
	}

	if cfg.Server.CookieMaxAge != 365*24*time.Hour || cfg.Server.WatchDebounce != 500*time.Millisecond {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Source.CodePage != "gb18030" || len(cfg.Source.Replacements) != 13 || !cfg.Source.ConvertQuotes {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Site.PageTitleTemplate != "{{ .Chapter }}" {
		t.Errorf("page title template was expanded: %q", cfg.Site.PageTitleTemplate)
	}
	if cfg.Site.Cover.Resize != common.ImageResizeModeKeepAR || cfg.Site.Cover.JPEGQuality != 85 {
		t.Errorf("cover = %+v", cfg.Site.Cover)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	configPath := writeConfig(t, `version: 1
site:
  title: "Test Book"
  page_title_template: "{{ .Book }} - {{ .Chapter }}"
reader:
  default_font_size: large
  default_theme: light
  narrow_viewport_is_mobile: true
  font_sizes:
    desktop: { small: 14, medium: 16, large: 18 }
server:
  listen: "127.0.0.1:9000"
logging:
  console:
    level: normal
  file:
    level: debug
    destination: `+logPath+`
    mode: append
`)

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Site.Title != "Test Book" || cfg.Site.PageTitleTemplate != "{{ .Book }} - {{ .Chapter }}" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Reader.DefaultFontSize != common.FontTierLarge || cfg.Reader.DefaultTheme != common.ThemeLight || !cfg.Reader.NarrowViewportIsMobile {
		t.Errorf("reader = %+v", cfg.Reader)
	}
	if cfg.Reader.FontSizes["desktop"]["medium"] != 16 {
		t.Errorf("desktop row = %v", cfg.Reader.FontSizes["desktop"])
	}
	if cfg.Reader.FontSizes["mobile"]["large"] != 22 {
		t.Errorf("mobile row must keep defaults, got %v", cfg.Reader.FontSizes["mobile"])
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Source.CodePage != "gb18030" {
		t.Errorf("defaults lost: code page = %q", cfg.Source.CodePage)
	}
	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid yaml", "version: 1\nreader:\n  breakpoint: 1\n  invalid indent\n", "decode"},
		{"unknown field", "version: 1\nunknown_field: value\n", "decode"},
		{"version", "version: 2\n", "validate"},
		{"unknown tier", "version: 1\nreader:\n  default_font_size: huge\n", "decode"},
		{"unknown theme", "version: 1\nreader:\n  default_theme: sepia\n", "decode"},
		{"unknown device", "version: 1\nreader:\n  font_sizes:\n    tablet: { small: 1, medium: 2, large: 3 }\n", "validate"},
		{"missing tier", "version: 1\nreader:\n  font_sizes:\n    mobile: { small: 18, large: 22 }\n", "validate"},
		{"unknown tier row", "version: 1\nreader:\n  font_sizes:\n    mobile: { small: 18, medium: 20, large: 22, huge: 30 }\n", "validate"},
		{"zero pixels", "version: 1\nreader:\n  font_sizes:\n    desktop: { small: 0, medium: 18, large: 20 }\n", "validate"},
		{"same keys", "version: 1\nreader:\n  storage_keys: { font_size: k, theme: k }\n", "validate"},
		{"bad listen", "version: 1\nserver:\n  listen: \"nowhere\"\n", "validate"},
		{"zero debounce", "version: 1\nserver:\n  watch_debounce: 0s\n", "validate"},
		{"bad quality", "version: 1\nsite:\n  cover: { jpeg_quality: 101 }\n", "validate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"readerFontSize", "back_to_top_threshold: 200", "resize: keepAR", "default_theme: dark"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("dump does not contain %q", want)
		}
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Reader.FontSizes["mobile"]["medium"] != 20 || cfg2.Server.CookieMaxAge != cfg.Server.CookieMaxAge {
		t.Errorf("dump/load mismatch: %+v", cfg2.Reader)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error (errors.Unwrap non-nil), got bare error: %v", err)
	}
}

func TestFontTier(t *testing.T) {
	tests := []struct {
		name    string
		want    common.FontTier
		wantErr bool
	}{
		{"small", common.FontTierSmall, false},
		{"medium", common.FontTierMedium, false},
		{"large", common.FontTierLarge, false},
		{"Large", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := common.ParseFontTier(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFontTier() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFontTier() = %q, want %q", got, tt.want)
			}
			var tier common.FontTier
			if err := tier.UnmarshalText([]byte(tt.name)); (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v", err)
			}
		})
	}
	if names := common.FontTierNames(); strings.Join(names, ",") != "small,medium,large" {
		t.Errorf("FontTierNames() = %v", names)
	}
}

func TestTheme_Toggle(t *testing.T) {
	tests := []struct {
		in, want common.Theme
	}{
		{common.ThemeLight, common.ThemeDark},
		{common.ThemeDark, common.ThemeLight},
		{"sepia", common.ThemeLight},
		{"", common.ThemeLight},
	}
	for _, tt := range tests {
		if got := tt.in.Toggle(); got != tt.want {
			t.Errorf("%q.Toggle() = %q, want %q", tt.in, got, tt.want)
		}
		if got := tt.in.Toggle().Toggle(); tt.in.IsValid() && got != tt.in {
			t.Errorf("%q toggled twice = %q", tt.in, got)
		}
	}
}

func TestImageResizeMode_Text(t *testing.T) {
	for _, name := range common.ImageResizeModeNames() {
		var m common.ImageResizeMode
		if err := m.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", name, err)
		}
		out, err := m.MarshalText()
		if err != nil || string(out) != name {
			t.Errorf("MarshalText() = %q, %v, want %q", out, err, name)
		}
	}
	if common.ImageResizeMode(42).IsValid() {
		t.Error("42 must not be valid")
	}
}
