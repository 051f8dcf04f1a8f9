package prefs

import (
	"fmt"
	"strconv"

	"github.com/Whale619/novel-site/common"
	"github.com/Whale619/novel-site/config"
)

// Class names put on page root.
const (
	ClassLight  = "light"
	ClassMobile = "mobile"
)

// FontTable maps (device class, tier) to font size in pixels.
type FontTable map[common.DeviceClass]map[common.FontTier]int

// NewFontTable converts configured lookup table, rejecting unknown keys and
// missing or non-positive values.
func NewFontTable(sizes config.FontSizes) (FontTable, error) {
	t := make(FontTable, len(sizes))
	for d, tiers := range sizes {
		device, err := common.ParseDeviceClass(d)
		if err != nil {
			return nil, fmt.Errorf("font sizes: %w", err)
		}
		row := make(map[common.FontTier]int, len(tiers))
		for n, px := range tiers {
			tier, err := common.ParseFontTier(n)
			if err != nil {
				return nil, fmt.Errorf("font sizes for %s: %w", device, err)
			}
			row[tier] = px
		}
		t[device] = row
	}
	for _, d := range common.DeviceClassNames() {
		for _, n := range common.FontTierNames() {
			if px := t[common.DeviceClass(d)][common.FontTier(n)]; px <= 0 {
				return nil, fmt.Errorf("font sizes: no pixel value for %s/%s", d, n)
			}
		}
	}
	return t, nil
}

// Lookup returns pixel value for the pair. Unrecognized tier or device is not
// an error, it simply has no value.
func (t FontTable) Lookup(device common.DeviceClass, tier common.FontTier) (int, bool) {
	px, ok := t[device][tier]
	return px, ok && px > 0
}

// State is everything which determines how page root looks.
type State struct {
	Tier   common.FontTier
	Device common.DeviceClass
	Theme  common.Theme
}

// Effects is a complete set of changes to be made to page root for a given
// State.
type Effects struct {
	// FontSize is CSS value for inline font-size, empty when tier has no
	// table value and style should be left alone.
	FontSize string `json:"fontSize"`
	Mobile   bool   `json:"mobile"`
	Light    bool   `json:"light"`
}

// Render maps State to Effects. It does not touch any page.
func (t FontTable) Render(s State) Effects {
	fx := Effects{
		Mobile: s.Device == common.DeviceClassMobile,
		Light:  s.Theme == common.ThemeLight,
	}
	if px, ok := t.Lookup(s.Device, s.Tier); ok {
		fx.FontSize = strconv.Itoa(px) + "px"
	}
	return fx
}

// ApplyTo performs effects on the page. Mobile marker is only ever added,
// device class does not change during page life.
func (fx Effects) ApplyTo(p Page) {
	if fx.Mobile {
		p.SetRootClass(ClassMobile, true)
	}
	if fx.FontSize != "" {
		p.SetRootFontSize(fx.FontSize)
	}
	p.SetRootClass(ClassLight, fx.Light)
}
