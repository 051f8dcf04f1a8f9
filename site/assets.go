package site

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"github.com/Whale619/novel-site/common"
	"github.com/Whale619/novel-site/config"
	"github.com/Whale619/novel-site/css"
	"github.com/Whale619/novel-site/jpegquality"
	"github.com/Whale619/novel-site/prefs"
	"github.com/Whale619/novel-site/utils/images"
)

//go:embed assets/style.css
var defaultStylesheet []byte

//go:embed assets/main.js.tmpl
var scriptTmpl string

const faviconSize = 64

type scriptKeys struct {
	FontSize string `json:"font_size"`
	Theme    string `json:"theme"`
}

type scriptDefaults struct {
	FontSize common.FontTier `json:"font_size"`
	Theme    common.Theme    `json:"theme"`
}

type scriptElements struct {
	FontSelector string `json:"font_selector"`
	ChapterList  string `json:"chapter_list"`
	BackToTop    string `json:"back_to_top"`
}

// scriptValues are available to page script template.
type scriptValues struct {
	Title           string
	FontSizes       config.FontSizes
	Keys            scriptKeys
	Defaults        scriptDefaults
	Elements        scriptElements
	MobileUserAgent string
	Breakpoint      int
	NarrowIsMobile  bool
	Threshold       int
	// CookieMaxAge is in seconds.
	CookieMaxAge int64
}

// renderScript produces page script which does in browser what prefs
// package does on the server.
func renderScript(title string, reader *config.ReaderConfig, cookieMaxAge time.Duration) ([]byte, error) {
	tmpl, err := template.New("main.js").Funcs(sprig.FuncMap()).Parse(scriptTmpl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse script template: %w", err)
	}
	values := scriptValues{
		Title:     title,
		FontSizes: reader.FontSizes,
		Keys:      scriptKeys{FontSize: reader.StorageKeys.FontSize, Theme: reader.StorageKeys.Theme},
		Defaults:  scriptDefaults{FontSize: reader.DefaultFontSize, Theme: reader.DefaultTheme},
		Elements: scriptElements{
			FontSelector: reader.Elements.FontSelector,
			ChapterList:  reader.Elements.ChapterList,
			BackToTop:    reader.Elements.BackToTop,
		},
		MobileUserAgent: reader.MobileUserAgent,
		Breakpoint:      reader.Breakpoint,
		NarrowIsMobile:  reader.NarrowViewportIsMobile,
		Threshold:       reader.BackToTopThreshold,
		CookieMaxAge:    int64(cookieMaxAge / time.Second),
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return nil, fmt.Errorf("unable to expand script template: %w", err)
	}
	return buf.Bytes(), nil
}

// loadStylesheet returns configured or embedded stylesheet. Stylesheet which
// does not style preference markers is still used, but reported.
func loadStylesheet(path string, reader *config.ReaderConfig, log *zap.Logger) ([]byte, error) {
	data := defaultStylesheet
	if len(path) > 0 {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("unable to read style css from %q: %w", path, err)
		}
	}

	sheet := css.NewParser(log).Parse(data, path)
	for _, w := range sheet.Warnings {
		log.Debug("Stylesheet warning", zap.String("warning", w))
	}
	missing := sheet.Missing(
		"."+prefs.ClassLight,
		"."+prefs.ClassMobile,
		"#"+reader.Elements.BackToTop,
		"#"+reader.Elements.ChapterList,
	)
	if len(missing) > 0 {
		log.Warn("Stylesheet does not style some of reader elements", zap.Strings("missing", missing))
	}
	return data, nil
}

// loadImage returns content of configured file or fallback when path is
// empty.
func loadImage(path string, fallback []byte) ([]byte, error) {
	if len(path) == 0 {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read image from %q: %w", path, err)
	}
	return data, nil
}

// prepareCover produces JPEG cover. JPEG source which does not need resizing
// and is already compressed harder than requested is used as is.
func prepareCover(data []byte, cfg *config.CoverConfig, log *zap.Logger) ([]byte, error) {
	img, kind, err := images.Decode(data, cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare cover: %w", err)
	}
	resized := images.Resize(img, cfg.Resize, cfg.Width, cfg.Height)
	if kind == "jpeg" && resized == img {
		jr, err := jpegquality.NewWithBytes(data)
		if err != nil {
			log.Warn("Unable to detect cover JPEG quality level, reencoding...", zap.Error(err))
		} else if q := jr.Quality(); q <= cfg.JPEGQuality {
			log.Debug("Cover JPEG quality level already lower than requested, keeping original",
				zap.Int("detected", q), zap.Int("requested", cfg.JPEGQuality))
			return data, nil
		}
	}
	return images.EncodeJPEG(resized, cfg.JPEGQuality)
}

func prepareFavicon(data []byte) ([]byte, error) {
	img, _, err := images.Decode(data, faviconSize, faviconSize)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare favicon: %w", err)
	}
	return images.EncodePNG(images.Resize(img, common.ImageResizeModeStretch, faviconSize, faviconSize))
}
