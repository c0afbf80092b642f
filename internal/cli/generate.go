package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codemap/internal/codemap"
	"github.com/mvp-joe/codemap/internal/config"
	"github.com/mvp-joe/codemap/internal/git"
)

func runGenerate(cmd *cobra.Command, args []string, gitOps git.Operations) error {
	// Positional arguments behave exactly like their flags
	for i, arg := range args {
		if err := cmd.Flags().Set(positionalFlags[i], arg); err != nil {
			return fmt.Errorf("invalid %s %q: %w", positionalFlags[i], arg, err)
		}
	}

	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	cfg, err := config.NewLoaderWithFlags(input, cmd.Flags()).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Cancel in-flight work on Ctrl+C
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	var progress codemap.ProgressReporter = &codemap.NoOpProgressReporter{}
	if cfg.Progress {
		progress = NewCLIProgressReporter(out)
	}

	result, err := codemap.Run(ctx, cfg, codemap.Deps{
		Git:      gitOps,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	if result.Reason != "" {
		fmt.Fprintln(out, result.Reason)
	}

	printCreated(out, result)
	return nil
}

// printCreated lists every written artifact followed by a usage tip.
func printCreated(out io.Writer, result *codemap.Result) {
	created := result.Created()
	if len(created) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "--- Files Created ---")
	for _, rel := range created {
		fmt.Fprintln(out, filepath.Join(result.OutputDir, filepath.FromSlash(rel)))
	}
	fmt.Fprintln(out, "---------------------")

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Tip: point your agent instructions (e.g. CLAUDE.md) at %s/%s to navigate the codebase\n",
		filepath.Base(result.OutputDir), codemap.OutlineFileName)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
