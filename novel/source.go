package novel

import (
	"archive/zip"
	"cmp"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/Whale619/novel-site/archive"
	"github.com/Whale619/novel-site/config"
)

// Source is a single text file, Name is relative to what was requested.
type Source struct {
	Name string
	Data []byte
}

// Parser turns text sources into chapters.
type Parser struct {
	cleaner  *Cleaner
	detector *Detector
	codePage encoding.Encoding
	nameCP   encoding.Encoding
	log      *zap.Logger
}

// NewParser prepares parser. nameCP, when not nil, is used to decode non
// UTF-8 file names in zip archives.
func NewParser(cfg *config.SourceConfig, nameCP encoding.Encoding, log *zap.Logger) (*Parser, error) {
	cp, _ := charset.Lookup(cfg.CodePage)
	if cp == nil {
		return nil, fmt.Errorf("unknown source code page %q", cfg.CodePage)
	}
	cleaner, err := NewCleaner(cfg)
	if err != nil {
		return nil, err
	}
	detector, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	return &Parser{
		cleaner:  cleaner,
		detector: detector,
		codePage: cp,
		nameCP:   nameCP,
		log:      log.Named("novel"),
	}, nil
}

// Chapters loads everything under src and parses it. Sources which could not
// be parsed are reported and skipped.
func (p *Parser) Chapters(ctx context.Context, src string) ([]Chapter, error) {
	sources, err := p.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	var chapters []Chapter
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, err := p.Parse(s)
		if err != nil {
			p.log.Error("Unable to parse source, skipping", zap.String("source", s.Name), zap.Error(err))
			continue
		}
		p.log.Debug("Source parsed", zap.String("source", s.Name), zap.Int("chapters", len(cs)))
		chapters = append(chapters, cs...)
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("no chapters found in %s", src)
	}
	return chapters, nil
}

// Parse splits single source into chapters.
func (p *Parser) Parse(s Source) ([]Chapter, error) {
	text, err := decodeText(s.Data, p.codePage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	var lines []string
	for raw := range strings.Lines(text) {
		if line, ok := p.cleaner.Clean(raw); ok {
			lines = append(lines, line)
		}
	}
	return group(lines, p.detector, s.Name), nil
}

// Load finds all text sources. src is a text file, a directory or a zip
// archive optionally followed by path inside it. Result is ordered by first
// number in file name.
func (p *Parser) Load(ctx context.Context, src string) ([]Source, error) {
	var (
		head, tail string
		sources    []Source
	)
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if sources, err = p.loadDir(ctx, head); err != nil {
				return nil, fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			tail = filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if sources, err = p.loadArchive(ctx, head, tail, ""); err != nil {
				return nil, fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) != 0 {
			return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		data, err := os.ReadFile(head)
		if err != nil {
			return nil, err
		}
		if !isTextFile(head, data[:min(len(data), 512)]) {
			return nil, fmt.Errorf("input was not recognized as text (%s)", head)
		}
		sources = append(sources, Source{Name: filepath.Base(head), Data: data})
		break
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("input source was not found (%s)", src)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no text sources found in %s", src)
	}
	SortSources(sources)
	return sources, nil
}

func (p *Parser) loadDir(ctx context.Context, dir string) ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		arc, err := isArchiveFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if arc {
			found, err := p.loadArchive(ctx, path, "", filepath.ToSlash(rel))
			if err != nil {
				p.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
				return nil
			}
			sources = append(sources, found...)
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !isTextFile(path, data[:min(len(data), 512)]) {
			p.log.Debug("Skipping file, not recognized as text or archive", zap.String("file", path))
			return nil
		}
		sources = append(sources, Source{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	return sources, err
}

func (p *Parser) loadArchive(ctx context.Context, path, pathIn, pathOut string) ([]Source, error) {
	var sources []Source
	err := archive.Walk(path, pathIn, archive.HasExt(".txt"), func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		r, err := f.Open()
		if err != nil {
			p.log.Error("Unable to read file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			p.log.Error("Unable to read file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}

		name := f.Name
		if p.nameCP != nil && f.NonUTF8 {
			// forcing zip file name encoding
			if n, err := p.nameCP.NewDecoder().String(name); err == nil {
				name = n
			} else {
				cpName, _ := ianaindex.IANA.Name(p.nameCP)
				p.log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", cpName), zap.String("path", name), zap.Error(err))
			}
		}
		if len(pathOut) > 0 {
			name = pathOut + "/" + name
		}
		sources = append(sources, Source{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		p.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return sources, nil
}

var firstNumber = regexp.MustCompile(`\p{Nd}+`)

// sourceNumber returns first decimal number in base file name as ASCII digits
// without leading zeros, empty string stands for 0. Any Unicode decimal digit
// counts, so full-width numbers order the same way as ASCII ones.
func sourceNumber(name string) string {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	var b strings.Builder
	for _, r := range firstNumber.FindString(base) {
		d := digitValue(r)
		if d == 0 && b.Len() == 0 {
			continue
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String()
}

// digitValue returns value of Unicode decimal digit. Decimal digits are
// always encoded as contiguous runs of whole 0..9 sequences.
func digitValue(r rune) int {
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}

// compareNumbers compares numbers produced by sourceNumber without any limit
// on their length.
func compareNumbers(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortSources orders sources by first number in base file name, ties are
// broken by natural order of full names.
func SortSources(sources []Source) {
	slices.SortStableFunc(sources, func(a, b Source) int {
		if c := compareNumbers(sourceNumber(a.Name), sourceNumber(b.Name)); c != 0 {
			return c
		}
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})
}
