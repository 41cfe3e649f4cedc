// Package scan enumerates viewable images in a folder and watches the
// folder for changes.
package scan

import (
	"os"
	"path/filepath"
	"sort"

	"kingview/internal/codec"
	"kingview/internal/errors"
	"kingview/internal/log"

	"github.com/gobwas/glob"
)

// Result is the outcome of scanning a single folder: the absolute paths of
// every viewable image, sorted, and the index of the file the scan was
// anchored on (0 when the anchor is absent or empty).
type Result struct {
	Folder string
	Files  []string
	Index  int
}

// Scanner lists supported images in a directory. Include globs, when
// present, further restrict the listing by base filename.
type Scanner struct {
	includes []glob.Glob
}

// New creates a Scanner. includes may be nil to accept every supported file.
func New(includes []glob.Glob) *Scanner {
	return &Scanner{includes: includes}
}

// Scan reads folder (non-recursive) and returns the sorted absolute paths of
// every supported image inside it. selected, when non-empty and present in
// the listing, determines the returned index; otherwise the index is 0.
func (s *Scanner) Scan(folder, selected string) (*Result, error) {
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return nil, errors.NewScanError("could not resolve folder path", folder, err)
	}

	entries, err := os.ReadDir(absFolder)
	if err != nil {
		return nil, errors.NewScanError("could not read folder", absFolder, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !codec.IsSupported(name) {
			continue
		}
		if !s.matches(name) {
			continue
		}
		files = append(files, filepath.Join(absFolder, name))
	}
	sort.Strings(files)

	index := 0
	if selected != "" {
		absSelected, err := filepath.Abs(selected)
		if err == nil {
			for i, f := range files {
				if f == absSelected {
					index = i
					break
				}
			}
		}
	}

	log.LogWithFields(
		log.F("folder", absFolder),
		log.F("count", len(files)),
	).Debug("Folder scanned")

	return &Result{Folder: absFolder, Files: files, Index: index}, nil
}

func (s *Scanner) matches(name string) bool {
	if len(s.includes) == 0 {
		return true
	}
	for _, g := range s.includes {
		if g.Match(name) {
			return true
		}
	}
	return false
}
