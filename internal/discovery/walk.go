package discovery

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// SkipFunc reports whether an entry should be left out of a walk. relPath is
// slash-separated and relative to the walk root. Returning true for a
// directory prunes its whole subtree.
type SkipFunc func(relPath string, isDir bool) bool

// Walk lists every regular file under the root of fsys, sorted. Directories
// that cannot be read are logged and skipped; only a failure to read the root
// itself is returned as an error. Symlinks and other special files are not
// followed or collected.
func Walk(ctx context.Context, fsys billy.Filesystem, skip SkipFunc) ([]string, error) {
	entries, err := fsys.ReadDir("")
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rootName(fsys), err)
	}

	w := &walker{fs: fsys, skip: skip}
	if err := w.visit(ctx, "", entries); err != nil {
		return nil, err
	}

	sort.Strings(w.files)
	return w.files, nil
}

type walker struct {
	fs    billy.Filesystem
	skip  SkipFunc
	files []string
}

func (w *walker) visit(ctx context.Context, dir string, entries []os.FileInfo) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := entry.Name()
		if dir != "" {
			rel = path.Join(dir, entry.Name())
		}

		isDir := entry.IsDir()
		if w.skip != nil && w.skip(rel, isDir) {
			continue
		}

		if isDir {
			children, err := w.fs.ReadDir(rel)
			if err != nil {
				log.Printf("Warning: skipping unreadable directory %s: %v", rel, err)
				continue
			}
			if err := w.visit(ctx, rel, children); err != nil {
				return err
			}
			continue
		}

		if entry.Mode().IsRegular() {
			w.files = append(w.files, rel)
		}
	}
	return nil
}

func rootName(fsys billy.Filesystem) string {
	if root := fsys.Root(); root != "" {
		return root
	}
	return "root"
}
