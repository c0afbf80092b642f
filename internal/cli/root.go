package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codemap/internal/git"
	"github.com/mvp-joe/codemap/internal/parsers"
)

// positionalFlags are the flags the positional arguments fill, in order.
var positionalFlags = []string{"input", "output", "min-signal", "min-files", "progress"}

// NewRootCommand builds the codemap command tree.
func NewRootCommand() *cobra.Command {
	return newRootCmd(git.NewOperations())
}

func newRootCmd(gitOps git.Operations) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codemap [input] [output] [min-signal] [min-files] [progress]",
		Short: "Generate code maps using tree-sitter AST analysis",
		Long: `Codemap scans a source tree, scores its top two directory levels by how
many declarations they contain, and writes a markdown codemap for every
directory that clears both thresholds, plus one outline of the project.

Each codemap lists, per file, the declarations tree-sitter finds (functions,
methods, classes, interfaces, types, enums) with their line numbers.

Supported languages: ` + supportedLanguages() + `.

Settings come from defaults, <input>/.codemap.yml, CODEMAP_* environment
variables (optionally from <input>/.env), and finally the command line.
Progress takes 0 or 1 (true/false also work).

A first positional argument equal to a subcommand name runs that
subcommand, so map a directory named "version" with ./version or
-i version.

Examples:
  # Map the current directory into ./.codemap
  codemap

  # Positional form: input, output, min-signal, min-files, progress
  codemap ./src ./docs/codemap 10 2 0

  # Flag form
  codemap -i ./src -s 10 -f 2 -p 0
`,
		Args:          cobra.MaximumNArgs(len(positionalFlags)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, gitOps)
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", ".", "Input directory to analyze")
	flags.StringP("output", "o", "", "Output directory for codemaps (default <input>/.codemap)")
	flags.IntP("min-signal", "s", 20, "Minimum symbols for a directory to be high-signal")
	flags.IntP("min-files", "f", 3, "Minimum source files for a directory to be high-signal")
	flags.StringP("progress", "p", "1", "Show (1) or hide (0) progress output; true/false also accepted")
	flags.Int("concurrency", runtime.NumCPU(), "Maximum directories processed at once")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// supportedLanguages lists the language labels of the built-in table.
func supportedLanguages() string {
	labels := make([]string, 0, len(parsers.Languages))
	for _, spec := range parsers.Languages {
		labels = append(labels, spec.Label)
	}
	return strings.Join(labels, ", ")
}

// Execute runs the root command and exits non-zero on error.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
