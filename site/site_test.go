package site

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Whale619/novel-site/config"
	"github.com/Whale619/novel-site/page"
	"github.com/Whale619/novel-site/state"
)

const sampleText = `書名頁
第1章 開始
第一段。
第二段。
第2章 再見
第三段。
`

func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

func writeSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "book.txt"), []byte(sampleText), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func readPage(t *testing.T, name string) *page.Document {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := page.ParseBytes(data)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return doc
}

func imageSize(t *testing.T, name string) (int, int, string) {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	cfg, kind, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	return cfg.Width, cfg.Height, kind
}

func TestBuild(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dst := filepath.Join(t.TempDir(), "site")

	out, err := Build(ctx, writeSource(t), dst, env.Log)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if out != dst {
		t.Errorf("Build() = %q, want %q", out, dst)
	}

	for _, name := range []string{indexFile, "chapters/1.html", "chapters/2.html", stylesheetFile, scriptFile, coverFile, faviconFile} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dst, "chapters", "3.html")); !os.IsNotExist(err) {
		t.Errorf("unexpected third chapter: %v", err)
	}

	t.Run("index", func(t *testing.T) {
		doc := readPage(t, filepath.Join(dst, indexFile))
		want := []string{"第1章 - 開始", "第2章 - 再見"}
		if got := doc.Items(env.Cfg.Reader.Elements.ChapterList); !slices.Equal(got, want) {
			t.Errorf("chapter list = %v, want %v", got, want)
		}
		if doc.ElementByID(env.Cfg.Reader.Elements.BackToTop) == nil {
			t.Error("back to top control is missing")
		}
		if doc.ElementByID(env.Cfg.Reader.Elements.FontSelector) != nil {
			t.Error("index page should not have font selector")
		}
		scripts := doc.Body().SelectElements("script")
		if len(scripts) != 1 || scripts[0].SelectAttrValue("src", "") != scriptFile {
			t.Errorf("scripts = %d", len(scripts))
		}
		links := doc.Body().FindElements("//ul/li/a")
		if len(links) != 2 || links[1].SelectAttrValue("href", "") != "chapters/2.html" {
			t.Errorf("links = %d", len(links))
		}
	})

	t.Run("first chapter", func(t *testing.T) {
		doc := readPage(t, filepath.Join(dst, "chapters", "1.html"))
		if v, ok := doc.Value(env.Cfg.Reader.Elements.FontSelector); !ok || v != "medium" {
			t.Errorf("font selector = %q, %v", v, ok)
		}
		title := doc.Head().SelectElement("title")
		if title == nil || title.Text() != "第1章 - 開始" {
			t.Errorf("title = %v", title)
		}
		var paras []string
		for _, p := range doc.Body().FindElements("./div[@class='content']/p") {
			paras = append(paras, p.Text())
		}
		if want := []string{"第一段。", "第二段。"}; !slices.Equal(paras, want) {
			t.Errorf("paragraphs = %v, want %v", paras, want)
		}
		navs := doc.Body().FindElements("./div[@class='nav']")
		if len(navs) != 2 {
			t.Fatalf("navigation bars = %d", len(navs))
		}
		for _, nav := range navs {
			if nav.SelectElement("span") == nil {
				t.Error("no previous chapter should be a span")
			}
			if a := nav.SelectElement("a"); a == nil || a.SelectAttrValue("href", "") != "2.html" {
				t.Error("next chapter link is wrong")
			}
		}
		css := doc.Head().FindElement("./link[@rel='stylesheet']")
		if css == nil || css.SelectAttrValue("href", "") != "../"+stylesheetFile {
			t.Error("stylesheet link is wrong")
		}
	})

	t.Run("last chapter", func(t *testing.T) {
		doc := readPage(t, filepath.Join(dst, "chapters", "2.html"))
		for _, nav := range doc.Body().FindElements("./div[@class='nav']") {
			if a := nav.SelectElement("a"); a == nil || a.SelectAttrValue("href", "") != "1.html" {
				t.Error("previous chapter link is wrong")
			}
		}
	})

	t.Run("images", func(t *testing.T) {
		if w, h, kind := imageSize(t, filepath.Join(dst, filepath.FromSlash(coverFile))); kind != "jpeg" || w != 600 || h != 800 {
			t.Errorf("cover = %dx%d %s", w, h, kind)
		}
		if w, h, kind := imageSize(t, filepath.Join(dst, filepath.FromSlash(faviconFile))); kind != "png" || w != faviconSize || h != faviconSize {
			t.Errorf("favicon = %dx%d %s", w, h, kind)
		}
	})
}

func TestBuildExistingSite(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := writeSource(t)
	dst := t.TempDir()

	if _, err := Build(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}
	stale := filepath.Join(dst, "chapters", "9.html")
	if err := os.WriteFile(stale, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(ctx, src, dst, env.Log)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("Build() error = %v, want already exists", err)
	}

	env.Overwrite = true
	if _, err := Build(ctx, src, dst, env.Log); err != nil {
		t.Fatalf("Build() with overwrite error = %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale chapter was kept: %v", err)
	}
}

func TestBuildNoChapters(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "empty.txt"), []byte("沒有章節\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Build(ctx, src, t.TempDir(), env.Log); err == nil {
		t.Fatal("Build() expected error")
	}
}

func TestDefaultDestination(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"", "novel"},
		{"...", "novel"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := DefaultDestination(tt.title); got != tt.want {
				t.Errorf("DefaultDestination(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
	if got := DefaultDestination("劍尊歸來"); len(got) == 0 || strings.ContainsAny(got, `/\ `) {
		t.Errorf("DefaultDestination() = %q", got)
	}
}

func TestExpandTitle(t *testing.T) {
	values := titleValues{Book: "book", Chapter: "第1章", Index: 1, Total: 3}
	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr bool
	}{
		{"empty", "", "第1章", false},
		{"chapter", "{{ .Chapter }}", "第1章", false},
		{"sprig", "{{ .Book | upper }} {{ .Index }}/{{ .Total }}", "BOOK 1/3", false},
		{"broken", "{{ .Chapter ", "", true},
		{"unknown field", "{{ .Missing }}", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTitle(tt.tmpl, values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expandTitle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("expandTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderScript(t *testing.T) {
	_, env := setupTestEnv(t)
	data, err := renderScript("書", &env.Cfg.Reader, env.Cfg.Server.CookieMaxAge)
	if err != nil {
		t.Fatalf("renderScript() error = %v", err)
	}
	js := string(data)
	for _, want := range []string{
		`{"font_size":"readerFontSize","theme":"readerTheme"}`,
		`{"font_size":"medium","theme":"dark"}`,
		`"chapter_list":"chapter-list"`,
		`"desktop":{"large":20,"medium":18,"small":16}`,
		`var threshold = 200;`,
		`var breakpoint = 768;`,
		`var narrowIsMobile = false;`,
		`var cookieMaxAge = 31536000;`,
	} {
		if !strings.Contains(js, want) {
			t.Errorf("script does not contain %s", want)
		}
	}
}

func TestRenderScriptCookieIsAuthoritative(t *testing.T) {
	_, env := setupTestEnv(t)
	data, err := renderScript("書", &env.Cfg.Reader, env.Cfg.Server.CookieMaxAge)
	if err != nil {
		t.Fatalf("renderScript() error = %v", err)
	}
	js := string(data)

	start := strings.Index(js, "function load(key)")
	if start < 0 {
		t.Fatal("script has no load function")
	}
	body := js[start:]
	body = body[:strings.Index(body, "\n  }\n")]
	cookie := strings.Index(body, "readCookie(key)")
	local := strings.Index(body, "localStorage.getItem(key)")
	if cookie < 0 || local < 0 || cookie > local {
		t.Errorf("cookie must be read before localStorage:\n%s", body)
	}
	if !strings.Contains(body, "localStorage.setItem(key, value)") {
		t.Errorf("cookie value is not mirrored to localStorage:\n%s", body)
	}

	// server side reversal only touches direct children of the list
	if !strings.Contains(js, `querySelectorAll(":scope > li")`) {
		t.Error("chapter list reversal must be limited to direct children")
	}
}

func TestLoadStylesheet(t *testing.T) {
	_, env := setupTestEnv(t)

	t.Run("embedded", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		data, err := loadStylesheet("", &env.Cfg.Reader, zap.New(core))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, defaultStylesheet) {
			t.Error("embedded stylesheet expected")
		}
		if logs.Len() != 0 {
			t.Errorf("unexpected warnings: %v", logs.All())
		}
	})

	t.Run("configured", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "my.css")
		if err := os.WriteFile(name, []byte("body.light { color: black; }\n#chapter-list { padding: 0; }"), 0644); err != nil {
			t.Fatal(err)
		}
		core, logs := observer.New(zap.WarnLevel)
		data, err := loadStylesheet(name, &env.Cfg.Reader, zap.New(core))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "body.light") {
			t.Error("configured stylesheet expected")
		}
		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("warnings = %d", len(entries))
		}
		missing, _ := entries[0].ContextMap()["missing"].([]any)
		if len(missing) != 2 || missing[0] != ".mobile" || missing[1] != "#back-to-top" {
			t.Errorf("missing = %v", entries[0].ContextMap()["missing"])
		}
	})

	t.Run("absent file", func(t *testing.T) {
		if _, err := loadStylesheet(filepath.Join(t.TempDir(), "none.css"), &env.Cfg.Reader, env.Log); err == nil {
			t.Error("expected error")
		}
	})
}

func TestAppendMarkdown(t *testing.T) {
	tests := []struct {
		name string
		md   string
		tag  string
		text string
	}{
		{"paragraph", "first line", "p", "first line"},
		{"emphasis", "**bold** tail", "p/strong", "bold"},
		{"not well formed", "a <b>b", "p", "a <b>b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := etree.NewElement("div")
			appendMarkdown(parent, tt.md)
			el := parent.FindElement("./" + tt.tag)
			if el == nil {
				t.Fatalf("no %s element", tt.tag)
			}
			if got := el.Text(); got != tt.text {
				t.Errorf("text = %q, want %q", got, tt.text)
			}
		})
	}
}

func encodeTestImage(t *testing.T, w, h int, jpegQuality int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	buf := new(bytes.Buffer)
	var err error
	if jpegQuality > 0 {
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(buf, img)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareCover(t *testing.T) {
	_, env := setupTestEnv(t)
	cfg := env.Cfg.Site.Cover // keepAR, 600x800, quality 85

	tests := []struct {
		name   string
		data   []byte
		keep   bool
		height int
	}{
		{"low quality jpeg of right size", encodeTestImage(t, 300, 800, 60), true, 800},
		{"high quality jpeg of right size", encodeTestImage(t, 300, 800, 95), false, 800},
		{"jpeg to resize", encodeTestImage(t, 100, 200, 60), false, 800},
		{"png", encodeTestImage(t, 300, 800, 0), false, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := prepareCover(tt.data, &cfg, env.Log)
			if err != nil {
				t.Fatalf("prepareCover() error = %v", err)
			}
			if kept := bytes.Equal(out, tt.data); kept != tt.keep {
				t.Errorf("original kept = %v, want %v", kept, tt.keep)
			}
			ic, kind, err := image.DecodeConfig(bytes.NewReader(out))
			if err != nil || kind != "jpeg" || ic.Height != tt.height {
				t.Errorf("cover = %s %dx%d, %v", kind, ic.Width, ic.Height, err)
			}
		})
	}

	if _, err := prepareCover([]byte("garbage"), &cfg, env.Log); err == nil {
		t.Error("garbage must not be accepted")
	}
}
