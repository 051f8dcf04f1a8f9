package css

import (
	"regexp"
	"slices"
)

// Rule is single ruleset. Grouped selectors are kept together.
type Rule struct {
	Selectors []string
	// Media is raw condition of enclosing @media block, empty at top level.
	Media      string
	Properties map[string]string
}

// Stylesheet is parsed CSS as far as site generation cares.
type Stylesheet struct {
	Rules    []Rule
	Imports  []string
	Warnings []string
}

var simpleNameRe = regexp.MustCompile(`[.#][-_a-zA-Z0-9\x{80}-\x{10FFFF}]+`)

// Names returns every class (".x") and id ("#x") mentioned in selectors.
func (s *Stylesheet) Names() []string {
	seen := make(map[string]struct{})
	for _, r := range s.Rules {
		for _, sel := range r.Selectors {
			for _, n := range simpleNameRe.FindAllString(sel, -1) {
				seen[n] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Missing returns those of required class and id names no selector mentions.
func (s *Stylesheet) Missing(required ...string) []string {
	names := s.Names()
	var out []string
	for _, r := range required {
		if _, found := slices.BinarySearch(names, r); !found {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns value of property for exact selector outside of any media
// block. Later rules win.
func (s *Stylesheet) Lookup(selector, property string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, r := range s.Rules {
		if len(r.Media) > 0 || !slices.Contains(r.Selectors, selector) {
			continue
		}
		if v, ok := r.Properties[property]; ok {
			value, found = v, true
		}
	}
	return value, found
}
