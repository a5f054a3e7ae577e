package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Expand replaces every name that is a directory with the invoice documents
// found under it, in lexical order. Other names pass through untouched so
// missing files are still reported later.
func Expand(names []string, skipHidden bool) ([]string, error) {
	var out []string
	for _, n := range names {
		fi, err := os.Stat(n)
		if err != nil || !fi.IsDir() {
			out = append(out, n)
			continue
		}
		found, err := walkDocuments(n, skipHidden)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func walkDocuments(root string, skipHidden bool) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if sel := SplitByExtension([]string{path}); len(sel.Valid) == 1 {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(found)
	return found, nil
}
