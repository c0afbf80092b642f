package codemap

import "github.com/mvp-joe/codemap/internal/scoring"

// ProgressReporter provides callbacks for reporting generation progress.
// Implementations can display progress bars, log messages, or remain silent.
// Callbacks are never invoked concurrently.
type ProgressReporter interface {
	// OnDiscoveryStart is called when source file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of source files found.
	OnDiscoveryComplete(sourceFiles int)

	// OnScoringStart is called before candidate directories are scored.
	OnScoringStart(candidates int)

	// OnScoringProgress is called as each candidate finishes scoring.
	OnScoringProgress(scored, total int)

	// OnDirectoryScored is called once per candidate after scoring, in
	// directory order.
	OnDirectoryScored(score scoring.DirectoryScore, highSignal bool)

	// OnGenerationStart is called before codemaps are written.
	OnGenerationStart(directories int)

	// OnOutlineStart is called before the outline is written.
	OnOutlineStart()

	// OnComplete is called when a run finishes, including runs that found
	// nothing to map.
	OnComplete(result *Result)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (progress=0).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                              {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(sourceFiles int)            {}
func (n *NoOpProgressReporter) OnScoringStart(candidates int)                  {}
func (n *NoOpProgressReporter) OnScoringProgress(scored, total int)            {}
func (n *NoOpProgressReporter) OnDirectoryScored(scoring.DirectoryScore, bool) {}
func (n *NoOpProgressReporter) OnGenerationStart(directories int)              {}
func (n *NoOpProgressReporter) OnOutlineStart()                                {}
func (n *NoOpProgressReporter) OnComplete(result *Result)                      {}
