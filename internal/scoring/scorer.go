// Package scoring measures how much declared code each candidate directory
// holds and decides which directories are worth a codemap.
package scoring

import (
	"context"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sourcegraph/conc/pool"

	"github.com/mvp-joe/codemap/internal/parsers"
)

// DirectoryScore is the file and symbol count for one directory and its
// subdirectories. The root directory is "".
type DirectoryScore struct {
	Directory   string
	FileCount   int
	SignalCount int
}

// Options configures a Scorer.
type Options struct {
	// FS is rooted at the scan root; files are read through it.
	FS billy.Filesystem

	// Registry supplies extractors. Defaults to parsers.Default().
	Registry *parsers.Registry

	// MinFiles and MinSignal are inclusive thresholds.
	MinFiles  int
	MinSignal int

	// Concurrency bounds how many directories are scored at once.
	// Defaults to runtime.NumCPU().
	Concurrency int

	// OnScored, if set, is called by ScoreAll as each directory finishes.
	// Calls are serialized but arrive in completion order.
	OnScored func(DirectoryScore)
}

// Scorer counts files and extracted symbols per directory.
type Scorer struct {
	fs          billy.Filesystem
	registry    *parsers.Registry
	minFiles    int
	minSignal   int
	concurrency int
	onScored    func(DirectoryScore)

	mu sync.Mutex
}

// NewScorer creates a Scorer.
func NewScorer(opts Options) *Scorer {
	s := &Scorer{
		fs:          opts.FS,
		registry:    opts.Registry,
		minFiles:    opts.MinFiles,
		minSignal:   opts.MinSignal,
		concurrency: opts.Concurrency,
		onScored:    opts.OnScored,
	}
	if s.registry == nil {
		s.registry = parsers.Default()
	}
	if s.concurrency <= 0 {
		s.concurrency = runtime.NumCPU()
	}
	return s
}

// DirectoryPrefix returns the path prefix shared by files under dir.
func DirectoryPrefix(dir string) string {
	if dir == "" {
		return ""
	}
	return dir + "/"
}

// Score counts every file under dir and the symbols extracted from those with
// a registered extractor. Files that cannot be read are still counted but add
// no signal.
func (s *Scorer) Score(dir string, files []string) DirectoryScore {
	score := DirectoryScore{Directory: dir}
	prefix := DirectoryPrefix(dir)

	for _, file := range files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		score.FileCount++

		if _, ok := s.registry.LookupPath(file); !ok {
			continue
		}

		content, err := util.ReadFile(s.fs, file)
		if err != nil {
			log.Printf("Error reading %s: %v", file, err)
			continue
		}
		score.SignalCount += len(s.registry.ExtractFile(file, content))
	}

	return score
}

// IsHighSignal reports whether score meets both thresholds.
func (s *Scorer) IsHighSignal(score DirectoryScore) bool {
	return score.FileCount >= s.minFiles && score.SignalCount >= s.minSignal
}

// ScoreAll scores dirs concurrently and returns the scores sorted by
// directory. Directories not yet started when ctx is cancelled are left out
// and the context error is returned.
func (s *Scorer) ScoreAll(ctx context.Context, dirs []string, files []string) ([]DirectoryScore, error) {
	p := pool.NewWithResults[DirectoryScore]().
		WithContext(ctx).
		WithMaxGoroutines(s.concurrency)

	for _, dir := range dirs {
		p.Go(func(ctx context.Context) (DirectoryScore, error) {
			if err := ctx.Err(); err != nil {
				return DirectoryScore{}, err
			}
			score := s.Score(dir, files)
			s.notify(score)
			return score, nil
		})
	}

	scores, err := p.Wait()
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Directory < scores[j].Directory
	})
	return scores, err
}

func (s *Scorer) notify(score DirectoryScore) {
	if s.onScored == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onScored(score)
}
