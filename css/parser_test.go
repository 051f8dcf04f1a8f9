package css

import (
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))))
}

const readerCSS = `
@import url("fonts.css");
@charset "UTF-8";

body { background: #1e1e1e; color: #ddd; font-size: 18px; }
body.light { background: #fafafa; color: #222 }
.controls button, .nav a { padding: 4px 8px; }
#chapter-list li a { text-decoration: none }
@font-face { font-family: "Noto"; src: url(noto.woff2) }
@media (max-width: 768px) {
  body.mobile .content { line-height: 1.9 }
  #back-to-top { right: 10px }
}
:root { --accent: #c9a227; }
`

func TestParse(t *testing.T) {
	sheet := newTestParser(t).Parse([]byte(readerCSS), "reader.css")

	if !slices.Equal(sheet.Imports, []string{"fonts.css"}) {
		t.Errorf("Imports = %v", sheet.Imports)
	}

	if len(sheet.Rules) != 7 {
		for _, r := range sheet.Rules {
			t.Logf("%+v", r)
		}
		t.Fatalf("got %d rules, want 7", len(sheet.Rules))
	}

	grouped := sheet.Rules[2]
	if !slices.Equal(grouped.Selectors, []string{".controls button", ".nav a"}) {
		t.Errorf("Selectors = %q", grouped.Selectors)
	}
	if grouped.Properties["padding"] != "4px 8px" {
		t.Errorf("padding = %q", grouped.Properties["padding"])
	}

	media := sheet.Rules[4]
	if media.Media == "" {
		t.Errorf("Media = %q", media.Media)
	}
	if !slices.Equal(media.Selectors, []string{"body.mobile .content"}) {
		t.Errorf("Selectors = %q", media.Selectors)
	}
}

func TestLookup(t *testing.T) {
	sheet := newTestParser(t).Parse([]byte(readerCSS+"\nbody { font-size: 20px }"), "reader.css")

	if v, ok := sheet.Lookup("body", "font-size"); !ok || v != "20px" {
		t.Errorf("Lookup(body, font-size) = %q, %v", v, ok)
	}
	if v, ok := sheet.Lookup("body.light", "color"); !ok || v != "#222" {
		t.Errorf("Lookup(body.light, color) = %q, %v", v, ok)
	}
	if _, ok := sheet.Lookup("#back-to-top", "right"); ok {
		t.Error("rules inside media blocks must be ignored")
	}
	if _, ok := sheet.Lookup("p", "color"); ok {
		t.Error("unexpected value for missing selector")
	}
}

func TestMissing(t *testing.T) {
	sheet := newTestParser(t).Parse([]byte(readerCSS), "reader.css")

	if got := sheet.Missing(".light", ".mobile", "#back-to-top", "#chapter-list"); len(got) != 0 {
		t.Errorf("Missing() = %v, want none", got)
	}
	if got := sheet.Missing(".light", ".dark", "#toc"); !slices.Equal(got, []string{".dark", "#toc"}) {
		t.Errorf("Missing() = %v", got)
	}
	if got := sheet.Missing(".control"); !slices.Equal(got, []string{".control"}) {
		t.Errorf("prefix of a class must not count: %v", got)
	}
}

func TestParseBroken(t *testing.T) {
	sheet := newTestParser(t).Parse([]byte(`body { color: red; `), "broken.css")
	if len(sheet.Rules) == 0 {
		t.Fatal("expected partial result")
	}
	if sheet.Rules[0].Properties["color"] != "red" {
		t.Errorf("Properties = %v", sheet.Rules[0].Properties)
	}
}

func TestParseEmpty(t *testing.T) {
	sheet := NewParser(nil).Parse(nil, "")
	if len(sheet.Rules) != 0 || len(sheet.Names()) != 0 {
		t.Errorf("unexpected content: %+v", sheet)
	}
}
