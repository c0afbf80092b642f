package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/codemap/internal/codemap"
	"github.com/mvp-joe/codemap/internal/scoring"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	out       io.Writer
	scoreBar  *progressbar.ProgressBar
	startTime time.Time
}

// NewCLIProgressReporter creates a reporter that writes to out.
func NewCLIProgressReporter(out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{
		out:       out,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	log.Println("Discovering source files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(sourceFiles int) {
	if sourceFiles > 0 {
		log.Printf("Found %s source files\n", formatNumber(sourceFiles))
	}
}

func (c *CLIProgressReporter) OnScoringStart(candidates int) {
	log.Printf("Analyzing %s candidate directories...\n", formatNumber(candidates))

	c.scoreBar = progressbar.NewOptions(candidates,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Scoring directories"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnScoringProgress(scored, total int) {
	if c.scoreBar != nil {
		c.scoreBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnDirectoryScored(score scoring.DirectoryScore, highSignal bool) {
	if c.scoreBar != nil {
		c.scoreBar.Finish()
		c.scoreBar = nil
	}

	status := "skip"
	if highSignal {
		status = "processed"
	}
	fmt.Fprintf(c.out, "[%s] %s (files=%d, signal=%d)\n",
		displayDir(score.Directory), status, score.FileCount, score.SignalCount)
}

func (c *CLIProgressReporter) OnGenerationStart(directories int) {
	fmt.Fprintf(c.out, "\nGenerating codemaps for %s directories...\n", formatNumber(directories))
}

func (c *CLIProgressReporter) OnOutlineStart() {
	fmt.Fprintln(c.out, "Generating outline...")
}

func (c *CLIProgressReporter) OnComplete(result *codemap.Result) {
	if result.Outline == nil {
		return
	}
	fmt.Fprintf(c.out, "✓ Wrote %s codemaps and the outline in %.1fs\n",
		formatNumber(len(result.Codemaps)), time.Since(c.startTime).Seconds())
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// formatNumber adds thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
