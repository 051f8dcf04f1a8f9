// Package novel reads plain text web novels and splits them into chapters.
package novel

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/Whale619/novel-site/config"
	"github.com/Whale619/novel-site/utils/debug"
)

// Book is everything needed to generate a site.
type Book struct {
	// ID is stable across builds of the same title.
	ID       uuid.UUID
	Title    string
	Author   string
	Status   string
	Intro    string
	Lang     string
	Chapters []Chapter
}

func NewBook(cfg *config.SiteConfig, chapters []Chapter) *Book {
	return &Book{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(cfg.Title)),
		Title:    cfg.Title,
		Author:   cfg.Author,
		Status:   cfg.Status,
		Intro:    cfg.Intro,
		Lang:     cfg.Lang,
		Chapters: chapters,
	}
}

// String dumps book tree for debug report.
func (b *Book) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Book %s", b.ID)
	tw.TextBlock(1, "title", b.Title)
	tw.TextBlock(1, "author", b.Author)
	tw.TextBlock(1, "status", b.Status)
	tw.TextBlock(1, "lang", b.Lang)
	tw.TextBlock(1, "intro", b.Intro)
	tw.Line(1, "chapters: %d", len(b.Chapters))
	for i, c := range b.Chapters {
		tw.Line(2, "%s [%s]", strconv.Itoa(i+1), c.Source)
		tw.TextBlock(3, "title", c.Title)
		tw.Line(3, "lines: %d", len(c.Lines))
		if len(c.Lines) > 0 {
			tw.TextBlock(3, "first", c.Lines[0])
		}
	}
	return tw.String()
}
