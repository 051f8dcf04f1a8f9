package novel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Whale619/novel-site/config"
)

var (
	doubleQuoted = regexp.MustCompile(`"([^"]*)"`)
	singleQuoted = regexp.MustCompile(`'([^']*)'`)
)

// Cleaner normalizes source lines, dropping noise.
type Cleaner struct {
	noise        []*regexp.Regexp
	replacements []config.Replacement
	quotes       bool
}

func NewCleaner(cfg *config.SourceConfig) (*Cleaner, error) {
	c := &Cleaner{replacements: cfg.Replacements, quotes: cfg.ConvertQuotes}
	for _, p := range cfg.NoisePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad noise pattern %q: %w", p, err)
		}
		c.noise = append(c.noise, re)
	}
	return c, nil
}

// Clean returns normalized line and false if line has to be dropped.
// Replacements are applied one after another so later ones see results of
// earlier.
func (c *Cleaner) Clean(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return "", false
	}
	for _, re := range c.noise {
		if re.MatchString(line) {
			return "", false
		}
	}
	for _, r := range c.replacements {
		line = strings.ReplaceAll(line, r.From, r.To)
	}
	if c.quotes {
		line = doubleQuoted.ReplaceAllString(line, "「$1」")
		line = singleQuoted.ReplaceAllString(line, "「$1」")
	}
	return line, true
}
