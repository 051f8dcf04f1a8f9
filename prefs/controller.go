// Package prefs implements reader preferences for generated reading pages:
// font size tiers, light/dark theme and mobile layout, plus small navigation
// helpers. It works against abstract Page and Storage so the same logic
// drives server side rendering and tests.
package prefs

import (
	"go.uber.org/zap"

	"github.com/Whale619/novel-site/common"
	"github.com/Whale619/novel-site/config"
)

// Settings are prepared once from configuration and shared by all
// controllers.
type Settings struct {
	Table      FontTable
	Classifier *Classifier
	Keys       Keys
	Defaults   Defaults
	Elements   config.ElementsConfig
	Threshold  int
}

func NewSettings(cfg *config.ReaderConfig) (*Settings, error) {
	table, err := NewFontTable(cfg.FontSizes)
	if err != nil {
		return nil, err
	}
	cls, err := NewClassifier(cfg.MobileUserAgent, cfg.Breakpoint, cfg.NarrowViewportIsMobile)
	if err != nil {
		return nil, err
	}
	return &Settings{
		Table:      table,
		Classifier: cls,
		Keys:       Keys{FontSize: cfg.StorageKeys.FontSize, Theme: cfg.StorageKeys.Theme},
		Defaults:   Defaults{FontSize: cfg.DefaultFontSize, Theme: cfg.DefaultTheme},
		Elements:   cfg.Elements,
		Threshold:  cfg.BackToTopThreshold,
	}, nil
}

// Controller applies and persists reader preferences for a single page. Not
// safe for concurrent use.
type Controller struct {
	settings *Settings
	store    *Store
	page     Page
	device   common.DeviceClass
	log      *zap.Logger
}

func (s *Settings) NewController(page Page, storage Storage, log *zap.Logger) *Controller {
	return &Controller{
		settings: s,
		store:    NewStore(storage, s.Keys, s.Defaults),
		page:     page,
		device:   common.DeviceClassDesktop,
		log:      log.Named("prefs"),
	}
}

// Device returns device class decided by Initialize.
func (c *Controller) Device() common.DeviceClass {
	return c.device
}

// Store gives access to persisted preferences.
func (c *Controller) Store() *Store {
	return c.store
}

// Initialize must be called once when page is ready. It classifies device,
// renders persisted state onto page root, writes font tier back and syncs
// font selector.
func (c *Controller) Initialize(env Environment) error {
	c.device = c.settings.Classifier.Classify(env)
	c.log.Debug("Device classified",
		zap.Stringer("device", c.device),
		zap.String("ua", env.UserAgent),
		zap.Int("width", env.ViewportWidth))

	tier := c.store.FontSize()
	fx := c.settings.Table.Render(State{Tier: common.FontTier(tier), Device: c.device, Theme: c.store.Theme()})
	fx.ApplyTo(c.page)
	if len(fx.FontSize) == 0 {
		c.log.Debug("Unknown font size tier, page not changed", zap.String("tier", tier))
	}
	if err := c.store.SetFontSize(tier); err != nil {
		return err
	}
	if !c.page.SetValue(c.settings.Elements.FontSelector, tier) {
		c.log.Debug("Font selector not present", zap.String("id", c.settings.Elements.FontSelector))
	}
	return nil
}

// ApplyFontSize sets root font size for tier and persists tier. Unrecognized
// tier leaves page alone but is still persisted verbatim.
func (c *Controller) ApplyFontSize(tier string) error {
	fx := c.settings.Table.Render(State{Tier: common.FontTier(tier), Device: c.device, Theme: c.pageTheme()})
	fx.ApplyTo(c.page)
	if len(fx.FontSize) == 0 {
		c.log.Debug("Unknown font size tier, page not changed", zap.String("tier", tier))
	}
	return c.store.SetFontSize(tier)
}

// ToggleTheme flips light marker on page root and persists resulting theme.
func (c *Controller) ToggleTheme() (common.Theme, error) {
	theme := c.pageTheme().Toggle()
	// empty tier has no table value, so font size stays as is
	c.settings.Table.Render(State{Device: c.device, Theme: theme}).ApplyTo(c.page)
	return theme, c.store.SetTheme(theme)
}

func (c *Controller) pageTheme() common.Theme {
	if c.page.HasRootClass(ClassLight) {
		return common.ThemeLight
	}
	return common.ThemeDark
}

// Effects returns what page root should look like for persisted state.
func (c *Controller) Effects() Effects {
	return c.settings.Table.Render(State{
		Tier:   common.FontTier(c.store.FontSize()),
		Device: c.device,
		Theme:  c.store.Theme(),
	})
}

func (c *Controller) ScrollToTop() {
	c.page.ScrollTo(0)
}

// ReverseList reverses chapter list, no-op when page has none.
func (c *Controller) ReverseList() {
	if !c.page.ReverseChildren(c.settings.Elements.ChapterList) {
		c.log.Debug("Chapter list not present", zap.String("id", c.settings.Elements.ChapterList))
	}
}

// OnScroll updates back-to-top control visibility for vertical offset.
func (c *Controller) OnScroll(offset int) {
	c.page.SetVisible(c.settings.Elements.BackToTop, BackToTopVisible(offset, c.settings.Threshold))
}

// BackToTopVisible is true only when offset is strictly past threshold.
func BackToTopVisible(offset, threshold int) bool {
	return offset > threshold
}
