package prefs

import (
	"fmt"
	"regexp"

	"github.com/Whale619/novel-site/common"
)

// Environment describes reader's client as far as it matters to us.
type Environment struct {
	UserAgent string
	// ViewportWidth is CSS pixels, 0 when unknown.
	ViewportWidth int
}

// Classifier decides device class once per page life.
type Classifier struct {
	mobileUA       *regexp.Regexp
	breakpoint     int
	narrowIsMobile bool
}

// NewClassifier compiles user agent pattern, matching is case insensitive.
func NewClassifier(pattern string, breakpoint int, narrowIsMobile bool) (*Classifier, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("bad mobile user agent pattern: %w", err)
	}
	return &Classifier{mobileUA: re, breakpoint: breakpoint, narrowIsMobile: narrowIsMobile}, nil
}

// Classify returns mobile when user agent looks like a phone or tablet, or
// when narrow viewports are configured to count as mobile and viewport width
// is known and does not exceed breakpoint.
func (c *Classifier) Classify(env Environment) common.DeviceClass {
	if c.mobileUA.MatchString(env.UserAgent) {
		return common.DeviceClassMobile
	}
	if c.narrowIsMobile && env.ViewportWidth > 0 && env.ViewportWidth <= c.breakpoint {
		return common.DeviceClassMobile
	}
	return common.DeviceClassDesktop
}
