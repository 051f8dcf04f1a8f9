package site

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/beevik/etree"
	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/russross/blackfriday/v2"

	"github.com/Whale619/novel-site/common"
	"github.com/Whale619/novel-site/config"
	"github.com/Whale619/novel-site/novel"
	"github.com/Whale619/novel-site/page"
)

// titleValues are available to page title template.
type titleValues struct {
	Book    string
	Author  string
	Chapter string
	Index   int
	Total   int
}

func expandTitle(tmplText string, values titleValues) (string, error) {
	if len(tmplText) == 0 {
		return values.Chapter, nil
	}
	tmpl, err := template.New(string(config.PageTitleTemplateFieldName)).Funcs(sprig.FuncMap()).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", config.PageTitleTemplateFieldName, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", config.PageTitleTemplateFieldName, err)
	}
	return buf.String(), nil
}

func chapterFile(index int) string {
	return strconv.Itoa(index) + ".html"
}

// chapterPath is site relative, index is 1 based.
func chapterPath(index int) string {
	return chaptersDir + "/" + chapterFile(index)
}

// pageBuilder creates site pages for a single book.
type pageBuilder struct {
	book   *novel.Book
	site   *config.SiteConfig
	reader *config.ReaderConfig
}

func addHead(doc *page.Document, prefix string) {
	head := doc.Head()

	css := head.CreateElement("link")
	css.CreateAttr("rel", "stylesheet")
	css.CreateAttr("href", prefix+stylesheetFile)

	icon := head.CreateElement("link")
	icon.CreateAttr("rel", "icon")
	icon.CreateAttr("type", "image/png")
	icon.CreateAttr("href", prefix+faviconFile)
}

func addButton(parent *etree.Element, onclick, label string) *etree.Element {
	b := parent.CreateElement("button")
	b.CreateAttr("type", "button")
	b.CreateAttr("onclick", onclick)
	b.SetText(label)
	return b
}

func (pb *pageBuilder) addTail(doc *page.Document, prefix string) {
	body := doc.Body()
	top := addButton(body, "scrollToTop()", pb.site.Labels.BackToTop)
	top.CreateAttr("id", pb.reader.Elements.BackToTop)

	script := body.CreateElement("script")
	script.CreateAttr("src", prefix+scriptFile)
}

func (pb *pageBuilder) addNav(parent *etree.Element, index int) {
	nav := parent.CreateElement("div")
	nav.CreateAttr("class", "nav")

	link := func(target int, label string) {
		if target < 1 || target > len(pb.book.Chapters) {
			nav.CreateElement("span").SetText(label)
			return
		}
		a := nav.CreateElement("a")
		a.CreateAttr("href", chapterFile(target))
		a.SetText(label)
	}
	link(index-1, pb.site.Labels.PrevChapter)
	link(index+1, pb.site.Labels.NextChapter)
}

// chapter builds page for chapter with 1 based index.
func (pb *pageBuilder) chapter(index int) (*page.Document, error) {
	ch := pb.book.Chapters[index-1]
	title, err := expandTitle(pb.site.PageTitleTemplate, titleValues{
		Book:    pb.book.Title,
		Author:  pb.book.Author,
		Chapter: ch.Title,
		Index:   index,
		Total:   len(pb.book.Chapters),
	})
	if err != nil {
		return nil, err
	}

	doc := page.New(pb.book.Lang, title)
	addHead(doc, "../")
	body := doc.Body()

	controls := body.CreateElement("div")
	controls.CreateAttr("class", "controls")
	left := controls.CreateElement("div")
	left.CreateAttr("class", "controls-left")
	back := left.CreateElement("a")
	back.CreateAttr("href", "../"+indexFile)
	back.SetText(pb.site.Labels.BackToIndex)

	right := controls.CreateElement("div")
	right.CreateAttr("class", "controls-right")
	labels := map[common.FontTier]string{
		common.FontTierSmall:  pb.site.Labels.FontSmall,
		common.FontTierMedium: pb.site.Labels.FontMedium,
		common.FontTierLarge:  pb.site.Labels.FontLarge,
	}
	for _, n := range common.FontTierNames() {
		b := addButton(right, "setFontSize('"+n+"')", labels[common.FontTier(n)])
		b.CreateAttr("class", "font")
	}
	sel := right.CreateElement("select")
	sel.CreateAttr("id", pb.reader.Elements.FontSelector)
	sel.CreateAttr("onchange", "changeFontSize(this.value)")
	for _, n := range common.FontTierNames() {
		opt := sel.CreateElement("option")
		opt.CreateAttr("value", n)
		if common.FontTier(n) == pb.reader.DefaultFontSize {
			opt.CreateAttr("selected", "selected")
		}
		opt.SetText(labels[common.FontTier(n)])
	}
	addButton(right, "toggleTheme()", pb.site.Labels.ToggleTheme)

	pb.addNav(body, index)
	body.CreateElement("h1").SetText(ch.Title)
	content := body.CreateElement("div")
	content.CreateAttr("class", "content")
	for _, line := range ch.Lines {
		content.CreateElement("p").SetText(line)
	}
	pb.addNav(body, index)
	pb.addTail(doc, "../")
	return doc, nil
}

// index builds table of contents page.
func (pb *pageBuilder) index() *page.Document {
	doc := page.New(pb.book.Lang, pb.book.Title)
	addHead(doc, "")
	body := doc.Body()

	info := body.CreateElement("div")
	info.CreateAttr("class", "book-info")
	img := info.CreateElement("div")
	img.CreateAttr("class", "cover")
	cover := img.CreateElement("img")
	cover.CreateAttr("src", coverFile)
	cover.CreateAttr("alt", pb.site.Labels.CoverAlt)

	meta := info.CreateElement("div")
	meta.CreateAttr("class", "meta")
	meta.CreateElement("h1").SetText("《" + pb.book.Title + "》")
	field := func(label, value string) {
		if len(value) == 0 {
			return
		}
		p := meta.CreateElement("p")
		p.CreateElement("b").SetText(label)
		p.CreateText(" " + value)
	}
	field(pb.site.Labels.Author, pb.book.Author)
	field(pb.site.Labels.Status, pb.book.Status)
	if len(pb.book.Intro) > 0 {
		intro := meta.CreateElement("div")
		intro.CreateAttr("class", "intro")
		intro.CreateElement("b").SetText(pb.site.Labels.Intro)
		appendMarkdown(intro, pb.book.Intro)
	}

	controls := body.CreateElement("div")
	controls.CreateAttr("class", "controls")
	left := controls.CreateElement("div")
	left.CreateAttr("class", "controls-left")
	addButton(left, "toggleOrder()", pb.site.Labels.ToggleOrder)
	right := controls.CreateElement("div")
	right.CreateAttr("class", "controls-right")
	addButton(right, "toggleTheme()", pb.site.Labels.ToggleTheme)

	body.CreateElement("h2").SetText(pb.site.Labels.Contents)
	list := body.CreateElement("ul")
	list.CreateAttr("id", pb.reader.Elements.ChapterList)
	for i, ch := range pb.book.Chapters {
		a := list.CreateElement("li").CreateElement("a")
		a.CreateAttr("href", chapterPath(i+1))
		a.SetText(ch.Title)
	}
	pb.addTail(doc, "")
	return doc
}

// appendMarkdown renders markdown as XHTML and attaches result to parent. If
// result could not be parsed text is added as is.
func appendMarkdown(parent *etree.Element, md string) {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: blackfriday.UseXHTML})
	out := blackfriday.Run([]byte(md),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak))

	frag := etree.NewDocument()
	frag.ReadSettings.Entity = map[string]string{"nbsp": " "}
	if err := frag.ReadFromString("<div>" + string(out) + "</div>"); err != nil {
		parent.CreateElement("p").SetText(md)
		return
	}
	for _, child := range frag.Root().ChildElements() {
		parent.AddChild(child)
	}
}
