package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codemap/internal/git"
)

// Test Plan for Locator:
// - Git listing is used when the root is a repository
// - Git listing failure falls back to the directory walk
// - Walk honors root .gitignore: globs, directory anchors, root anchors, negation
// - Housekeeping directories are excluded even when .gitignore re-includes them
// - An output directory under the root is excluded in both strategies
// - Configured ignore globs apply to both strategies
// - Unreadable subdirectories are skipped without failing the scan
// - Source files are filtered to registered extensions, sorted and deduplicated
// - Paths escaping the root are dropped
// - Invalid ignore globs are rejected at construction

func newFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0644))
	}
	return fs
}

// failingDirFS refuses to list one directory.
type failingDirFS struct {
	billy.Filesystem
	fail string
}

func (f failingDirFS) ReadDir(p string) ([]os.FileInfo, error) {
	if p == f.fail {
		return nil, errors.New("permission denied")
	}
	return f.Filesystem.ReadDir(p)
}

func TestLocator_UsesGitListing(t *testing.T) {
	t.Parallel()

	gitOps := git.RepoScenario("src/b.ts", "README.md", "src/a.go", "src/a.go")
	l, err := NewLocator(Options{
		Root: t.TempDir(),
		FS:   newFS(t, map[string]string{"walked.ts": ""}),
		Git:  gitOps,
	})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.go", "src/b.ts"}, files)
	assert.Equal(t, 1, gitOps.ListCalls)
}

func TestLocator_GitFailureFallsBackToWalk(t *testing.T) {
	t.Parallel()

	gitOps := git.RepoScenario()
	gitOps.FilesError = errors.New("git: command not found")

	l, err := NewLocator(Options{
		Root: t.TempDir(),
		FS:   newFS(t, map[string]string{"walked.ts": "", "lib/util.py": ""}),
		Git:  gitOps,
	})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.py", "walked.ts"}, files)
}

func TestLocator_WalkHonorsGitignore(t *testing.T) {
	t.Parallel()

	fs := newFS(t, map[string]string{
		".gitignore": "# generated\ngen/\n*.min.js\n/top.ts\nsecret/*\n!secret/keep.ts\n!node_modules\n",
		"a.ts":                    "",
		"top.ts":                  "",
		"src/top.ts":              "",
		"src/README.md":           "",
		"gen/x.ts":                "",
		"lib/app.min.js":          "",
		"lib/app.js":              "",
		"secret/hidden.ts":        "",
		"secret/keep.ts":          "",
		"node_modules/pkg/i.js":   "",
		"web/node_modules/m/i.js": "",
		".codemap/codemap.md":     "",
		".git/HEAD":               "",
	})

	l, err := NewLocator(Options{Root: t.TempDir(), FS: fs, Git: git.NewMockGitOps()})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts", "lib/app.js", "secret/keep.ts", "src/top.ts"}, files)

	all, err := l.DiscoverAllFiles(context.Background())
	require.NoError(t, err)
	assert.Contains(t, all, ".gitignore")
	assert.Contains(t, all, "src/README.md")
	assert.NotContains(t, all, ".git/HEAD")
}

func TestLocator_ExcludesOutputDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fs := newFS(t, map[string]string{
		"app/main.go":       "",
		"docs/maps/x.go":    "",
		"docs/mapsother.go": "",
	})

	l, err := NewLocator(Options{
		Root:      root,
		FS:        fs,
		OutputDir: filepath.Join(root, "docs", "maps"),
	})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app/main.go", "docs/mapsother.go"}, files)

	// Same exclusion on the git path, where untracked output shows up.
	l.git = git.RepoScenario("app/main.go", "docs/maps/x.go", ".codemap/app/x.go")
	files, err = l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app/main.go"}, files)
}

func TestLocator_IgnorePatterns(t *testing.T) {
	t.Parallel()

	fs := newFS(t, map[string]string{
		"api.pb.go":          "",
		"api/v1/api.pb.go":   "",
		"api/v1/server.go":   "",
		"generated/types.ts": "",
	})

	l, err := NewLocator(Options{
		Root:           t.TempDir(),
		FS:             fs,
		IgnorePatterns: []string{"**/*.pb.go", "generated/**"},
	})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"api/v1/server.go"}, files)
}

func TestLocator_SkipsUnreadableDirectory(t *testing.T) {
	t.Parallel()

	fs := failingDirFS{
		Filesystem: newFS(t, map[string]string{
			"ok/a.rb":     "",
			"locked/b.rb": "",
		}),
		fail: "locked",
	}

	l, err := NewLocator(Options{Root: t.TempDir(), FS: fs})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ok/a.rb"}, files)
}

func TestLocator_UnreadableRootFails(t *testing.T) {
	t.Parallel()

	fs := failingDirFS{Filesystem: memfs.New(), fail: ""}
	l, err := NewLocator(Options{Root: t.TempDir(), FS: fs})
	require.NoError(t, err)

	_, err = l.DiscoverAllFiles(context.Background())
	require.Error(t, err)
}

func TestLocator_DropsEscapingPaths(t *testing.T) {
	t.Parallel()

	l, err := NewLocator(Options{
		Root: t.TempDir(),
		FS:   memfs.New(),
		Git:  git.RepoScenario("../outside.ts", "/abs/path.ts", "./inside.ts", "a/../b.ts"),
	})
	require.NoError(t, err)

	files, err := l.DiscoverSourceFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.ts", "inside.ts"}, files)
}

func TestLocator_CancelledContext(t *testing.T) {
	t.Parallel()

	l, err := NewLocator(Options{
		Root: t.TempDir(),
		FS:   newFS(t, map[string]string{"a.ts": ""}),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.DiscoverAllFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocator_InvalidIgnorePattern(t *testing.T) {
	t.Parallel()

	_, err := NewLocator(Options{Root: t.TempDir(), IgnorePatterns: []string{"[oops"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestRelativeDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	assert.Equal(t, "out", RelativeDir(root, filepath.Join(root, "out")))
	assert.Equal(t, "a/b", RelativeDir(root, filepath.Join(root, "a", "b")))
	assert.Equal(t, "", RelativeDir(root, root))
	assert.Equal(t, "", RelativeDir(root, filepath.Dir(root)))
}
