// Package site generates static reading site for a novel.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/Whale619/novel-site/config"
	"github.com/Whale619/novel-site/novel"
	"github.com/Whale619/novel-site/page"
	"github.com/Whale619/novel-site/state"
)

// Site layout, paths are relative to destination directory and use forward
// slashes.
const (
	indexFile      = "index.html"
	chaptersDir    = "chapters"
	stylesheetFile = "css/style.css"
	scriptFile     = "js/main.js"
	coverFile      = "img/cover.jpg"
	faviconFile    = "img/favicon.png"
)

// DefaultDestination returns directory name derived from book title.
func DefaultDestination(title string) string {
	name := slug.Make(title)
	if len(name) == 0 {
		return "novel"
	}
	return config.CleanFileName(name)
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = Build(ctx, src, dst, log)
	return err
}

// Build reads text sources under src and generates site into dst. Empty dst
// means directory named after book title in current working directory.
// Returns absolute destination.
func Build(ctx context.Context, src, dst string, log *zap.Logger) (string, error) {
	env := state.EnvFromContext(ctx)

	parser, err := novel.NewParser(&env.Cfg.Source, env.CodePage, log)
	if err != nil {
		return "", err
	}
	chapters, err := parser.Chapters(ctx, src)
	if err != nil {
		return "", err
	}
	book := novel.NewBook(&env.Cfg.Site, chapters)

	if len(dst) == 0 {
		dst = DefaultDestination(book.Title)
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", err
	}

	if _, err := os.Stat(filepath.Join(dst, indexFile)); err == nil {
		if !env.Overwrite {
			return "", fmt.Errorf("site already exists: %s", dst)
		}
		log.Warn("Overwriting existing site", zap.String("dir", dst))
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if env.Rpt != nil {
		// serve rebuilds the same book many times
		env.Rpt.StoreData(fmt.Sprintf("book-%s-%s.txt", book.ID, time.Now().Format("150405.000000")), []byte(book.String()))
	}

	if err := Generate(ctx, book, dst, log); err != nil {
		return "", fmt.Errorf("unable to generate site: %w", err)
	}

	// Store generation result for debugging
	env.Rpt.Store(fmt.Sprintf("site-%s", book.ID), dst)
	return dst, nil
}

// Generate writes all site files for the book into dst.
func Generate(ctx context.Context, book *novel.Book, dst string, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)
	cfg := env.Cfg

	log.Info("Generating site", zap.String("title", book.Title), zap.Int("chapters", len(book.Chapters)))
	defer func(start time.Time) {
		if err == nil {
			log.Debug("Site generated", zap.String("dir", dst), zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	files := make(map[string][]byte)

	if files[stylesheetFile], err = loadStylesheet(cfg.Site.StylesheetPath, &cfg.Reader, log); err != nil {
		return err
	}
	if files[scriptFile], err = renderScript(book.Title, &cfg.Reader, cfg.Server.CookieMaxAge); err != nil {
		return err
	}

	data, err := loadImage(cfg.Site.Cover.Path, env.DefaultCover)
	if err != nil {
		return err
	}
	if files[coverFile], err = prepareCover(data, &cfg.Site.Cover, log); err != nil {
		return err
	}
	if data, err = loadImage(cfg.Site.FaviconPath, env.DefaultFavicon); err != nil {
		return err
	}
	if files[faviconFile], err = prepareFavicon(data); err != nil {
		return err
	}

	pb := &pageBuilder{book: book, site: &cfg.Site, reader: &cfg.Reader}
	if files[indexFile], err = render(pb.index()); err != nil {
		return err
	}
	for i := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := pb.chapter(i + 1)
		if err != nil {
			return err
		}
		if files[chapterPath(i+1)], err = render(doc); err != nil {
			return err
		}
	}

	// stale chapters from previous build would be reachable by url
	if err := os.RemoveAll(filepath.Join(dst, chaptersDir)); err != nil {
		return fmt.Errorf("unable to clean chapters directory: %w", err)
	}
	for name, data := range files {
		err = multierr.Append(err, writeFile(filepath.Join(dst, filepath.FromSlash(name)), data))
	}
	return err
}

func render(doc *page.Document) ([]byte, error) {
	doc.Indent()
	return doc.Bytes()
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	return nil
}
