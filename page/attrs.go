package page

import (
	"slices"
	"strings"

	"github.com/beevik/etree"
)

type declaration struct {
	prop, value string
}

// parseStyle splits inline style into declarations keeping their order.
func parseStyle(style string) []declaration {
	var out []declaration
	for part := range strings.SplitSeq(style, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if len(prop) == 0 {
			continue
		}
		out = append(out, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

func styleProperty(el *etree.Element, prop string) string {
	var value string
	for _, d := range parseStyle(el.SelectAttrValue("style", "")) {
		if d.prop == prop {
			value = d.value
		}
	}
	return value
}

// setStyleProperty replaces property in inline style, other declarations are
// kept.
func setStyleProperty(el *etree.Element, prop, value string) {
	decls := slices.DeleteFunc(parseStyle(el.SelectAttrValue("style", "")), func(d declaration) bool {
		return d.prop == prop
	})
	decls = append(decls, declaration{prop: prop, value: value})
	el.CreateAttr("style", formatStyle(decls))
}

func classList(el *etree.Element) []string {
	return strings.Fields(el.SelectAttrValue("class", ""))
}

func setClass(el *etree.Element, name string, on bool) {
	classes := classList(el)
	has := slices.Contains(classes, name)
	switch {
	case on && !has:
		classes = append(classes, name)
	case !on && has:
		classes = slices.DeleteFunc(classes, func(c string) bool { return c == name })
	default:
		return
	}
	if len(classes) == 0 {
		el.RemoveAttr("class")
		return
	}
	el.CreateAttr("class", strings.Join(classes, " "))
}
