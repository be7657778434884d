package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"specweaver/internal/diagnostic"
)

// Source is one document to process.
type Source struct {
	// Path identifies the document in diagnostics; relative slash paths are preferred.
	Path string
	Text string
}

// Discover walks root and returns the slash-separated relative paths of the
// files matching any include pattern and no exclude pattern, sorted.
func Discover(root string, include, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) && d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return err
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)

		if matchesAny(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if matchesAny(include, rel) {
			files = append(files, rel)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)

	return files, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}

		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}

	return false
}

// ReadSources reads the given paths relative to root. A file that cannot be
// read is reported as READ_ERROR and skipped; the others are still returned.
func ReadSources(root string, paths []string) ([]Source, diagnostic.Diagnostics) {
	var (
		sources []Source
		diags   diagnostic.Diagnostics
	)

	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			diags.AddError(diagnostic.CodeReadError, fmt.Sprintf("failed to read document: %v", err),
				diagnostic.Location{Path: rel})

			continue
		}

		sources = append(sources, Source{Path: rel, Text: string(data)})
	}

	return sources, diags
}
