package novel

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Whale619/novel-site/config"
)

// Heading is recognized chapter title line.
type Heading struct {
	// Number is chapter number as written in the source, empty for preface.
	Number string
	Title  string
}

// Detector recognizes chapter title lines.
type Detector struct {
	preface      *regexp.Regexp
	prefaceTitle string
	chapter      *regexp.Regexp
}

func NewDetector(cfg *config.SourceConfig) (*Detector, error) {
	preface, err := regexp.Compile(cfg.PrefacePattern)
	if err != nil {
		return nil, fmt.Errorf("bad preface pattern: %w", err)
	}
	chapter, err := regexp.Compile(cfg.ChapterPattern)
	if err != nil {
		return nil, fmt.Errorf("bad chapter pattern: %w", err)
	}
	if chapter.NumSubexp() < 4 {
		return nil, fmt.Errorf("chapter pattern must have at least 4 groups, has %d", chapter.NumSubexp())
	}
	return &Detector{preface: preface, prefaceTitle: cfg.PrefaceTitle, chapter: chapter}, nil
}

// Detect returns heading if line is a title.
func (d *Detector) Detect(line string) (Heading, bool) {
	if d.preface.MatchString(line) {
		return Heading{Title: d.prefaceTitle}, true
	}
	m := d.chapter.FindStringSubmatch(line)
	if m == nil {
		return Heading{}, false
	}
	h := Heading{Number: m[1], Title: "第" + m[1] + "章"}
	if text := strings.TrimSpace(m[4]); len(text) > 0 {
		h.Title += " - " + text
	}
	return h, true
}

// Chapter is a titled group of content lines.
type Chapter struct {
	Number string
	Title  string
	Lines  []string
	// Source is name of the file chapter came from.
	Source string
}

// group splits cleaned lines into chapters. Lines before first heading are
// discarded. Repeated heading with the same number restarts current chapter
// and chapters without content are dropped.
func group(lines []string, d *Detector, source string) []Chapter {
	var (
		chapters []Chapter
		cur      *Chapter
	)
	flush := func() {
		if cur != nil && len(cur.Lines) > 0 {
			chapters = append(chapters, *cur)
		}
	}
	for _, line := range lines {
		h, ok := d.Detect(line)
		if !ok {
			if cur != nil {
				cur.Lines = append(cur.Lines, line)
			}
			continue
		}
		if cur != nil && len(cur.Number) > 0 && cur.Number == h.Number {
			cur.Title, cur.Lines = h.Title, nil
			continue
		}
		flush()
		cur = &Chapter{Number: h.Number, Title: h.Title, Source: source}
	}
	flush()
	return chapters
}
