package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/Whale619/novel-site/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	Replacement struct {
		From string `yaml:"from" validate:"required"`
		To   string `yaml:"to"`
	}

	SourceConfig struct {
		CodePage       string        `yaml:"code_page" validate:"required"`
		NoisePatterns  []string      `yaml:"noise_patterns" validate:"dive,required"`
		Replacements   []Replacement `yaml:"replacements" validate:"dive"`
		ConvertQuotes  bool          `yaml:"convert_quotes"`
		PrefacePattern string        `yaml:"preface_pattern" validate:"required"`
		PrefaceTitle   string        `yaml:"preface_title" validate:"required"`
		ChapterPattern string        `yaml:"chapter_pattern" validate:"required"`
	}

	CoverConfig struct {
		Path        string                 `yaml:"path" sanitize:"assure_file_access"`
		Resize      common.ImageResizeMode `yaml:"resize" validate:"gte=0"`
		Width       int                    `yaml:"width" validate:"min=100"`
		Height      int                    `yaml:"height" validate:"min=100"`
		JPEGQuality int                    `yaml:"jpeg_quality" validate:"min=40,max=100"`
	}

	LabelsConfig struct {
		BackToIndex string `yaml:"back_to_index"`
		PrevChapter string `yaml:"prev_chapter"`
		NextChapter string `yaml:"next_chapter"`
		FontSmall   string `yaml:"font_small"`
		FontMedium  string `yaml:"font_medium"`
		FontLarge   string `yaml:"font_large"`
		ToggleTheme string `yaml:"toggle_theme"`
		ToggleOrder string `yaml:"toggle_order"`
		Contents    string `yaml:"contents"`
		BackToTop   string `yaml:"back_to_top"`
		Author      string `yaml:"author"`
		Status      string `yaml:"status"`
		Intro       string `yaml:"intro"`
		CoverAlt    string `yaml:"cover_alt"`
	}

	SiteConfig struct {
		Title             string       `yaml:"title" validate:"required"`
		Author            string       `yaml:"author"`
		Status            string       `yaml:"status"`
		Intro             string       `yaml:"intro"`
		Lang              string       `yaml:"lang" validate:"required"`
		PageTitleTemplate string       `yaml:"page_title_template"`
		StylesheetPath    string       `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		FaviconPath       string       `yaml:"favicon_path" sanitize:"assure_file_access"`
		Cover             CoverConfig  `yaml:"cover"`
		Labels            LabelsConfig `yaml:"labels"`
	}

	StorageKeysConfig struct {
		FontSize string `yaml:"font_size" validate:"required,nefield=Theme"`
		Theme    string `yaml:"theme" validate:"required"`
	}

	ElementsConfig struct {
		FontSelector string `yaml:"font_selector" validate:"required"`
		ChapterList  string `yaml:"chapter_list" validate:"required"`
		BackToTop    string `yaml:"back_to_top" validate:"required"`
	}

	// FontSizes is (device class -> tier -> pixels) lookup table as it comes
	// from configuration. Keys are checked against known enumerations during
	// validation.
	FontSizes map[string]map[string]int

	ReaderConfig struct {
		DefaultFontSize        common.FontTier   `yaml:"default_font_size" validate:"required"`
		DefaultTheme           common.Theme      `yaml:"default_theme" validate:"required"`
		StorageKeys            StorageKeysConfig `yaml:"storage_keys"`
		MobileUserAgent        string            `yaml:"mobile_user_agent" validate:"required"`
		Breakpoint             int               `yaml:"breakpoint" validate:"min=1"`
		NarrowViewportIsMobile bool              `yaml:"narrow_viewport_is_mobile"`
		BackToTopThreshold     int               `yaml:"back_to_top_threshold" validate:"gte=0"`
		FontSizes              FontSizes         `yaml:"font_sizes" validate:"required"`
		Elements               ElementsConfig    `yaml:"elements"`
	}

	ServerConfig struct {
		Listen        string        `yaml:"listen" validate:"required,hostname_port"`
		CookieMaxAge  time.Duration `yaml:"cookie_max_age" validate:"gte=0"`
		WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gt=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Source    SourceConfig   `yaml:"source"`
		Site      SiteConfig     `yaml:"site"`
		Reader    ReaderConfig   `yaml:"reader"`
		Server    ServerConfig   `yaml:"server"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	PageTitleTemplateFieldName TemplateFieldName = "page_title_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(PageTitleTemplateFieldName)),
)

// checkFontSizes makes sure lookup table has exactly one positive value for
// every (device class, tier) pair, so every recognized tier always maps to a
// pixel value.
func checkFontSizes(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	sizes := cfg.Reader.FontSizes

	for device, tiers := range sizes {
		if _, err := common.ParseDeviceClass(device); err != nil {
			sl.ReportError(sizes, "font_sizes", "FontSizes", "device_class", device)
			continue
		}
		for tier := range tiers {
			if _, err := common.ParseFontTier(tier); err != nil {
				sl.ReportError(sizes, "font_sizes", "FontSizes", "font_tier", device+"."+tier)
			}
		}
	}
	for _, device := range common.DeviceClassNames() {
		for _, tier := range common.FontTierNames() {
			if px := sizes[device][tier]; px <= 0 {
				sl.ReportError(sizes, "font_sizes", "FontSizes", "required_pixels", device+"."+tier)
			}
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkFontSizes)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads configuration from the file at the given path,
// superimposes its values on top of expanded embedded template and performs
// validation. Empty path means defaults only.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// NOTE: font table rows are replaced per device class, not merged per tier
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
