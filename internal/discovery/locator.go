package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/mvp-joe/codemap/internal/git"
	"github.com/mvp-joe/codemap/internal/parsers"
)

// housekeepingDirs are never scanned, whatever the ignore files say.
var housekeepingDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".codemap":     true,
}

// Options configures a Locator.
type Options struct {
	// Root is the directory to scan. Git is invoked here.
	Root string

	// FS reads the tree during the fallback walk. Defaults to osfs at Root.
	FS billy.Filesystem

	// Git lists tracked and untracked files. Nil disables the git listing.
	Git git.Operations

	// Registry decides which files count as source. Defaults to parsers.Default().
	Registry *parsers.Registry

	// IgnorePatterns are extra globs (gobwas syntax) matched against
	// root-relative paths.
	IgnorePatterns []string

	// OutputDir is excluded from the scan when it lives under Root.
	OutputDir string
}

// Locator finds the files a run operates on.
type Locator struct {
	root      string
	fs        billy.Filesystem
	git       git.Operations
	registry  *parsers.Registry
	ignore    []compiledPattern
	outputRel string
}

// NewLocator creates a Locator from opts.
func NewLocator(opts Options) (*Locator, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", opts.Root, err)
	}

	ignore, err := compilePatterns(opts.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern: %w", err)
	}

	l := &Locator{
		root:     root,
		fs:       opts.FS,
		git:      opts.Git,
		registry: opts.Registry,
		ignore:   ignore,
	}
	if l.fs == nil {
		l.fs = osfs.New(root)
	}
	if l.registry == nil {
		l.registry = parsers.Default()
	}
	if opts.OutputDir != "" {
		l.outputRel = RelativeDir(root, opts.OutputDir)
	}

	return l, nil
}

// DiscoverSourceFiles returns the files with a registered extractor, sorted
// and free of duplicates.
func (l *Locator) DiscoverSourceFiles(ctx context.Context) ([]string, error) {
	all, err := l.DiscoverAllFiles(ctx)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(all))
	for _, f := range all {
		if l.registry.Supports(path.Ext(f)) {
			sources = append(sources, f)
		}
	}
	return sources, nil
}

// DiscoverAllFiles lists every non-ignored file under the root. The git
// listing (tracked plus untracked, minus ignored) is preferred; when the root
// is not a repository or git fails, the tree is walked honoring the root
// .gitignore.
func (l *Locator) DiscoverAllFiles(ctx context.Context) ([]string, error) {
	if files, ok := l.listFromGit(); ok {
		return l.filter(files), nil
	}

	files, err := l.walk(ctx)
	if err != nil {
		return nil, err
	}
	return l.filter(files), nil
}

func (l *Locator) listFromGit() ([]string, bool) {
	if l.git == nil || !l.git.IsRepository(l.root) {
		return nil, false
	}

	files, err := l.git.ListFiles(l.root)
	if err != nil {
		log.Printf("Warning: git listing failed, walking directory instead: %v", err)
		return nil, false
	}
	return files, true
}

func (l *Locator) walk(ctx context.Context) ([]string, error) {
	patterns, err := readGitignore(l.fs)
	if err != nil {
		log.Printf("Warning: failed to read .gitignore: %v", err)
	}
	matcher := gitignore.NewMatcher(patterns)

	return Walk(ctx, l.fs, func(relPath string, isDir bool) bool {
		if l.excluded(relPath) {
			return true
		}
		return matcher.Match(strings.Split(relPath, "/"), isDir)
	})
}

// filter normalizes paths and applies the exclusions that hold for both
// listing strategies.
func (l *Locator) filter(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	result := make([]string, 0, len(files))

	for _, f := range files {
		f = path.Clean(filepath.ToSlash(f))
		if f == "." || path.IsAbs(f) || f == ".." || strings.HasPrefix(f, "../") {
			continue
		}
		if l.excluded(f) {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		result = append(result, f)
	}

	sort.Strings(result)
	return result
}

// excluded reports whether relPath is housekeeping, inside the output
// directory, or matched by a configured ignore glob.
func (l *Locator) excluded(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if housekeepingDirs[segment] {
			return true
		}
	}

	if l.outputRel != "" && (relPath == l.outputRel || strings.HasPrefix(relPath, l.outputRel+"/")) {
		return true
	}

	return matchesAnyPattern(relPath, l.ignore)
}

// RelativeDir returns target relative to root in slash form, or "" when
// target is root itself or lies outside it.
func RelativeDir(root, target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return ""
	}
	return rel
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
