// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// MatchFunc decides whether file with given name (full path inside archive)
// should be visited. Nil MatchFunc accepts everything.
type MatchFunc func(name string) bool

// WalkFunc is called for every visited file. The archive argument is the path
// to archive passed to Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits all regular files under prefix inside archive which satisfy
// match, in archive directory order. Any entry with absolute path or path
// traversal component makes whole archive unacceptable.
func Walk(archive, prefix string, match MatchFunc, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// HasExt returns MatchFunc accepting names with given extension, case
// insensitive. Extension includes leading dot.
func HasExt(ext string) MatchFunc {
	return func(name string) bool {
		return strings.EqualFold(path.Ext(name), ext)
	}
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
