// Package page is the in-memory model of a generated reading page. Pages are
// well-formed XHTML produced by the site builder, so they are kept as etree
// documents and could be parsed back and modified without losing anything.
package page

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

const doctype = "DOCTYPE html"

// Document is a reading page. Page root is the body element, that is where
// theme and mobile markers and reader font size live.
type Document struct {
	doc     *etree.Document
	root    *etree.Element
	scrollY int
}

func newTree() *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalEndTags: true,
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	return doc
}

// New creates page skeleton with head filled in. Body is empty.
func New(lang, title string) *Document {
	doc := newTree()
	doc.CreateDirective(doctype)

	html := doc.CreateElement("html")
	html.CreateAttr("lang", lang)

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "UTF-8")
	meta := head.CreateElement("meta")
	meta.CreateAttr("name", "viewport")
	meta.CreateAttr("content", "width=device-width, initial-scale=1.0")
	head.CreateElement("title").SetText(title)

	return &Document{doc: doc, root: html.CreateElement("body")}
}

// Parse reads page previously produced by WriteTo.
func Parse(r io.Reader) (*Document, error) {
	doc := newTree()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to parse page: %w", err)
	}
	body := doc.FindElement("/html/body")
	if body == nil {
		return nil, fmt.Errorf("unable to parse page: no body element")
	}
	return &Document{doc: doc, root: body}, nil
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// Head returns head element of the page.
func (d *Document) Head() *etree.Element {
	return d.doc.FindElement("/html/head")
}

// Body returns page root.
func (d *Document) Body() *etree.Element {
	return d.root
}

// ElementByID returns first element with given id or nil.
func (d *Document) ElementByID(id string) *etree.Element {
	if len(id) == 0 || strings.ContainsRune(id, '\'') {
		return nil
	}
	return d.doc.FindElement("//*[@id='" + id + "']")
}

// Indent formats page for human consumption. Only whitespace between
// elements is affected.
func (d *Document) Indent() {
	d.doc.Indent(2)
}

func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.doc.WriteTo(w)
}

func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}

// ScrollY is last requested vertical scroll position.
func (d *Document) ScrollY() int {
	return d.scrollY
}

func (d *Document) ScrollTo(y int) {
	d.scrollY = max(y, 0)
}

// RootFontSize returns inline font-size of page root, empty if not set.
func (d *Document) RootFontSize() string {
	return styleProperty(d.root, "font-size")
}

func (d *Document) SetRootFontSize(value string) {
	setStyleProperty(d.root, "font-size", value)
}

// RootClasses returns class tokens on page root in document order.
func (d *Document) RootClasses() []string {
	return classList(d.root)
}

func (d *Document) HasRootClass(name string) bool {
	return slices.Contains(classList(d.root), name)
}

func (d *Document) SetRootClass(name string, on bool) {
	setClass(d.root, name, on)
}

// SetValue selects option with matching value for select elements and sets
// value attribute for anything else. When no option matches selection is
// cleared.
func (d *Document) SetValue(id, value string) bool {
	el := d.ElementByID(id)
	if el == nil {
		return false
	}
	if el.Tag != "select" {
		el.CreateAttr("value", value)
		return true
	}
	for opt := range el.FindElementsSeq(".//option") {
		if optionValue(opt) == value {
			opt.CreateAttr("selected", "selected")
		} else {
			opt.RemoveAttr("selected")
		}
	}
	return true
}

// Value returns currently selected option value for select elements or value
// attribute otherwise.
func (d *Document) Value(id string) (string, bool) {
	el := d.ElementByID(id)
	if el == nil {
		return "", false
	}
	if el.Tag != "select" {
		return el.SelectAttrValue("value", ""), true
	}
	for opt := range el.FindElementsSeq(".//option") {
		if opt.SelectAttr("selected") != nil {
			return optionValue(opt), true
		}
	}
	return "", true
}

func optionValue(opt *etree.Element) string {
	if a := opt.SelectAttr("value"); a != nil {
		return a.Value
	}
	return strings.TrimSpace(opt.Text())
}

// ReverseChildren reverses order of li children of the element. Anything
// else inside the list, including formatting whitespace, is dropped.
func (d *Document) ReverseChildren(id string) bool {
	el := d.ElementByID(id)
	if el == nil {
		return false
	}
	items := el.SelectElements("li")
	for i := len(el.Child) - 1; i >= 0; i-- {
		el.RemoveChildAt(i)
	}
	for _, item := range slices.Backward(items) {
		el.AddChild(item)
	}
	return true
}

// Items returns text of li children of the element in document order.
func (d *Document) Items(id string) []string {
	el := d.ElementByID(id)
	if el == nil {
		return nil
	}
	var out []string
	for item := range el.SelectElementsSeq("li") {
		out = append(out, strings.TrimSpace(textOf(item)))
	}
	return out
}

func textOf(el *etree.Element) string {
	var sb strings.Builder
	for _, t := range el.Child {
		switch v := t.(type) {
		case *etree.CharData:
			sb.WriteString(v.Data)
		case *etree.Element:
			sb.WriteString(textOf(v))
		}
	}
	return sb.String()
}

func (d *Document) SetVisible(id string, visible bool) bool {
	el := d.ElementByID(id)
	if el == nil {
		return false
	}
	if visible {
		setStyleProperty(el, "display", "block")
	} else {
		setStyleProperty(el, "display", "none")
	}
	return true
}

// Visible reports whether element is not hidden with inline display style.
func (d *Document) Visible(id string) (bool, bool) {
	el := d.ElementByID(id)
	if el == nil {
		return false, false
	}
	return styleProperty(el, "display") != "none", true
}
