package scoring

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Scorer:
// - Files under the directory prefix are counted; siblings sharing a name prefix are not
// - Symbols from every file with an extractor add to the signal
// - Files without an extractor count toward files but add no signal
// - Unreadable files count toward files but add no signal
// - The root directory covers every file
// - IsHighSignal is inclusive on both thresholds and needs both
// - ScoreAll returns one score per directory sorted by directory
// - ScoreAll reports each finished directory through OnScored
// - ScoreAll stops on a cancelled context

const userTS = "export class User {\n  save() {}\n}\n"
const postTS = "export class Post {}\n"

func newFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0644))
	}
	return fs
}

func modelsFixture(t *testing.T) (billy.Filesystem, []string) {
	fs := newFS(t, map[string]string{
		"app/models/user.ts": userTS,
		"app/models/post.ts": postTS,
		"app/modelsx/x.ts":   postTS,
		"app/README.md":      "# app\n",
	})
	files := []string{"app/README.md", "app/models/post.ts", "app/models/user.ts", "app/modelsx/x.ts"}
	return fs, files
}

func TestScore_CountsFilesAndSignal(t *testing.T) {
	t.Parallel()

	fs, files := modelsFixture(t)
	s := NewScorer(Options{FS: fs, MinFiles: 2, MinSignal: 2})

	score := s.Score("app/models", files)
	assert.Equal(t, DirectoryScore{Directory: "app/models", FileCount: 2, SignalCount: 3}, score)
	assert.True(t, s.IsHighSignal(score))

	score = s.Score("app", files)
	assert.Equal(t, DirectoryScore{Directory: "app", FileCount: 4, SignalCount: 4}, score)

	score = s.Score("", files)
	assert.Equal(t, 4, score.FileCount)
}

func TestScore_UnreadableFileCountsWithoutSignal(t *testing.T) {
	t.Parallel()

	fs := newFS(t, map[string]string{"lib/a.ts": postTS})
	s := NewScorer(Options{FS: fs})

	score := s.Score("lib", []string{"lib/a.ts", "lib/gone.ts"})
	assert.Equal(t, 2, score.FileCount)
	assert.Equal(t, 1, score.SignalCount)
}

func TestIsHighSignal_Boundaries(t *testing.T) {
	t.Parallel()

	s := NewScorer(Options{FS: memfs.New(), MinFiles: 3, MinSignal: 20})

	tests := []struct {
		files, signal int
		want          bool
	}{
		{3, 20, true},
		{4, 21, true},
		{2, 20, false},
		{3, 19, false},
		{2, 100, false},
		{100, 0, false},
	}

	for _, tt := range tests {
		got := s.IsHighSignal(DirectoryScore{FileCount: tt.files, SignalCount: tt.signal})
		assert.Equal(t, tt.want, got, "files=%d signal=%d", tt.files, tt.signal)
	}
}

func TestScoreAll_SortedByDirectory(t *testing.T) {
	t.Parallel()

	fs, files := modelsFixture(t)
	s := NewScorer(Options{FS: fs, Concurrency: 2})

	scores, err := s.ScoreAll(context.Background(), []string{"app/modelsx", "app", "app/models"}, files)
	require.NoError(t, err)

	require.Len(t, scores, 3)
	assert.Equal(t, "app", scores[0].Directory)
	assert.Equal(t, "app/models", scores[1].Directory)
	assert.Equal(t, "app/modelsx", scores[2].Directory)
	assert.Equal(t, 3, scores[1].SignalCount)
	assert.Equal(t, 1, scores[2].FileCount)
}

func TestScoreAll_OnScored(t *testing.T) {
	t.Parallel()

	fs, files := modelsFixture(t)

	var seen []string
	s := NewScorer(Options{
		FS:          fs,
		Concurrency: 4,
		OnScored: func(score DirectoryScore) {
			seen = append(seen, score.Directory)
		},
	})

	_, err := s.ScoreAll(context.Background(), []string{"", "app", "app/models", "app/modelsx"}, files)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"", "app", "app/models", "app/modelsx"}, seen)
}

func TestScoreAll_CancelledContext(t *testing.T) {
	t.Parallel()

	fs, files := modelsFixture(t)
	s := NewScorer(Options{FS: fs})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ScoreAll(ctx, []string{"app"}, files)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirectoryPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", DirectoryPrefix(""))
	assert.Equal(t, "app/", DirectoryPrefix("app"))
	assert.Equal(t, "app/models/", DirectoryPrefix("app/models"))
}
