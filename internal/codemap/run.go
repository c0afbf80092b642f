package codemap

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mvp-joe/codemap/internal/config"
	"github.com/mvp-joe/codemap/internal/discovery"
	"github.com/mvp-joe/codemap/internal/git"
	"github.com/mvp-joe/codemap/internal/parsers"
	"github.com/mvp-joe/codemap/internal/scoring"
)

// Informational outcomes of a run that produced no codemaps.
const (
	ReasonNoSourceFiles = "No source files found."
	ReasonNoCandidates  = "No candidate directories found."
	ReasonNoHighSignal  = "No high-signal directories found. Try lowering thresholds with -s and -f."
)

// Deps holds the collaborators of a run. Zero values select the real
// implementations rooted at the configured directories.
type Deps struct {
	Git      git.Operations
	Registry *parsers.Registry
	Source   billy.Filesystem
	Output   billy.Filesystem
	Progress ProgressReporter
}

// Result summarizes a run.
type Result struct {
	InputDir  string
	OutputDir string

	SourceFiles int
	Scores      []scoring.DirectoryScore
	HighSignal  []string

	Codemaps []Artifact
	Outline  *Artifact

	// Reason is set when the run ended without codemaps.
	Reason string
}

// Created returns the output-relative paths of every written artifact,
// outline first.
func (r *Result) Created() []string {
	var paths []string
	if r.Outline != nil {
		paths = append(paths, r.Outline.Path)
	}
	for _, a := range r.Codemaps {
		paths = append(paths, a.Path)
	}
	return paths
}

// Run discovers source files under cfg's input directory, scores candidate
// directories, and writes a codemap per high-signal directory plus the
// outline. Finding nothing to map is not an error: the returned Result
// carries a Reason. The outline is written whenever source files exist.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*Result, error) {
	inputDir, err := cfg.InputDir()
	if err != nil {
		return nil, err
	}
	outputDir, err := cfg.OutputDir()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", inputDir)
	}

	deps = withDefaults(deps, inputDir, outputDir)
	result := &Result{InputDir: inputDir, OutputDir: outputDir}
	progress := deps.Progress

	progress.OnDiscoveryStart()
	locator, err := discovery.NewLocator(discovery.Options{
		Root:           inputDir,
		FS:             deps.Source,
		Git:            deps.Git,
		Registry:       deps.Registry,
		IgnorePatterns: cfg.Paths.Ignore,
		OutputDir:      outputDir,
	})
	if err != nil {
		return nil, err
	}

	sourceFiles, err := locator.DiscoverSourceFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to discover source files: %w", err)
	}
	result.SourceFiles = len(sourceFiles)
	progress.OnDiscoveryComplete(len(sourceFiles))

	if len(sourceFiles) == 0 {
		return finish(progress, result, ReasonNoSourceFiles), nil
	}

	candidates := discovery.CandidateDirectories(sourceFiles)
	if len(candidates) == 0 {
		return finish(progress, result, ReasonNoCandidates), nil
	}

	progress.OnScoringStart(len(candidates))
	scored := 0
	scorer := scoring.NewScorer(scoring.Options{
		FS:          deps.Source,
		Registry:    deps.Registry,
		MinFiles:    cfg.Thresholds.MinFiles,
		MinSignal:   cfg.Thresholds.MinSignal,
		Concurrency: cfg.Concurrency,
		OnScored: func(scoring.DirectoryScore) {
			scored++
			progress.OnScoringProgress(scored, len(candidates))
		},
	})

	scores, err := scorer.ScoreAll(ctx, candidates, sourceFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to score directories: %w", err)
	}
	result.Scores = scores

	for _, score := range scores {
		high := scorer.IsHighSignal(score)
		if high {
			result.HighSignal = append(result.HighSignal, score.Directory)
		}
		progress.OnDirectoryScored(score, high)
	}

	if len(result.HighSignal) > 0 {
		progress.OnGenerationStart(len(result.HighSignal))
		generator := NewGenerator(GeneratorOptions{
			Source:      deps.Source,
			Output:      deps.Output,
			Registry:    deps.Registry,
			Concurrency: cfg.Concurrency,
		})

		result.Codemaps, err = generator.WriteCodemaps(ctx, result.HighSignal, sourceFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to write codemaps: %w", err)
		}
	}

	progress.OnOutlineStart()
	outline := NewOutlineGenerator(OutlineOptions{
		Source:     deps.Source,
		Output:     deps.Output,
		ExcludeDir: discovery.RelativeDir(inputDir, outputDir),
	})

	outlineArtifact, err := outline.WriteOutline(ctx, result.Codemaps)
	if err != nil {
		return nil, err
	}
	result.Outline = &outlineArtifact

	reason := ""
	if len(result.HighSignal) == 0 {
		reason = ReasonNoHighSignal
	}
	return finish(progress, result, reason), nil
}

func finish(progress ProgressReporter, result *Result, reason string) *Result {
	result.Reason = reason
	progress.OnComplete(result)
	return result
}

func withDefaults(deps Deps, inputDir, outputDir string) Deps {
	if deps.Git == nil {
		deps.Git = git.NewOperations()
	}
	if deps.Registry == nil {
		deps.Registry = parsers.Default()
	}
	if deps.Source == nil {
		deps.Source = osfs.New(inputDir)
	}
	if deps.Output == nil {
		deps.Output = osfs.New(outputDir)
	}
	if deps.Progress == nil {
		deps.Progress = &NoOpProgressReporter{}
	}
	return deps
}
