// Package codemap renders the markdown artifacts of a run: one codemap per
// high-signal directory and a single outline for the whole tree.
package codemap

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sourcegraph/conc/pool"

	"github.com/mvp-joe/codemap/internal/parsers"
	"github.com/mvp-joe/codemap/internal/scoring"
)

const (
	// CodemapFileName is the artifact name inside each mapped directory.
	CodemapFileName = "codemap.md"

	// OutlineFileName is the outline artifact at the top of the output dir.
	OutlineFileName = "outline.md"
)

// Artifact describes one written markdown file.
type Artifact struct {
	// Directory is the mapped source directory ("" for root). Empty for the
	// outline.
	Directory string

	// Path is slash-separated and relative to the output directory.
	Path string

	// Lines is the newline count plus one.
	Lines int
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	// Source is rooted at the scan root.
	Source billy.Filesystem

	// Output is rooted at the output directory.
	Output billy.Filesystem

	// Registry supplies extractors. Defaults to parsers.Default().
	Registry *parsers.Registry

	// Concurrency bounds how many codemaps are rendered at once.
	Concurrency int
}

// Generator renders and writes per-directory codemaps.
type Generator struct {
	src         billy.Filesystem
	out         billy.Filesystem
	registry    *parsers.Registry
	concurrency int
}

// NewGenerator creates a Generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	g := &Generator{
		src:         opts.Source,
		out:         opts.Output,
		registry:    opts.Registry,
		concurrency: opts.Concurrency,
	}
	if g.registry == nil {
		g.registry = parsers.Default()
	}
	if g.concurrency <= 0 {
		g.concurrency = runtime.NumCPU()
	}
	return g
}

// CodemapPath returns the output-relative path of dir's codemap.
func CodemapPath(dir string) string {
	if dir == "" {
		return CodemapFileName
	}
	return dir + "/" + CodemapFileName
}

// BuildCodemap renders the codemap for dir. Files are taken from files in the
// given order; files without an extractor, unreadable files and files with no
// symbols get no section.
func (g *Generator) BuildCodemap(dir string, files []string) string {
	var sb strings.Builder

	title := dir
	if title == "" {
		title = "."
	}
	fmt.Fprintf(&sb, "# CODEMAP: %s\n\n", title)

	prefix := scoring.DirectoryPrefix(dir)
	for _, file := range files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}

		spec, ok := g.registry.LookupPath(file)
		if !ok {
			continue
		}

		content, err := util.ReadFile(g.src, file)
		if err != nil {
			log.Printf("Error processing %s: %v", file, err)
			continue
		}

		symbols := g.registry.ExtractFile(file, content)
		if len(symbols) == 0 {
			continue
		}

		writeSymbolSection(&sb, file, spec.Fence, symbols)
	}

	return sb.String()
}

// writeSymbolSection renders one file heading and its fenced symbol listing,
// one "line:text" row per symbol.
func writeSymbolSection(sb *strings.Builder, file, fence string, symbols []parsers.Symbol) {
	fmt.Fprintf(sb, "## %s\n\n", file)
	fmt.Fprintf(sb, "```%s\n", fence)
	for _, s := range symbols {
		fmt.Fprintf(sb, "%d:%s\n", s.Line, s.Text)
	}
	sb.WriteString("```\n\n")
}

// WriteCodemap renders and writes dir's codemap. A directory with no files
// under it produces nothing and a zero Artifact.
func (g *Generator) WriteCodemap(dir string, files []string) (Artifact, bool, error) {
	prefix := scoring.DirectoryPrefix(dir)
	hasFiles := false
	for _, file := range files {
		if strings.HasPrefix(file, prefix) {
			hasFiles = true
			break
		}
	}
	if !hasFiles {
		return Artifact{}, false, nil
	}

	content := g.BuildCodemap(dir, files)
	rel := CodemapPath(dir)
	if err := util.WriteFile(g.out, rel, []byte(content), 0644); err != nil {
		return Artifact{}, false, fmt.Errorf("failed to write %s: %w", rel, err)
	}

	return Artifact{Directory: dir, Path: rel, Lines: CountLines(content)}, true, nil
}

// WriteCodemaps writes the codemaps for dirs concurrently and returns the
// written artifacts sorted by path. Any write failure fails the whole call.
func (g *Generator) WriteCodemaps(ctx context.Context, dirs []string, files []string) ([]Artifact, error) {
	type written struct {
		artifact Artifact
		ok       bool
	}

	p := pool.NewWithResults[written]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(g.concurrency)

	for _, dir := range dirs {
		p.Go(func(ctx context.Context) (written, error) {
			if err := ctx.Err(); err != nil {
				return written{}, err
			}
			artifact, ok, err := g.WriteCodemap(dir, files)
			return written{artifact: artifact, ok: ok}, err
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(results))
	for _, r := range results {
		if r.ok {
			artifacts = append(artifacts, r.artifact)
		}
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Path < artifacts[j].Path
	})
	return artifacts, nil
}

// CountLines returns the number of lines content splits into on "\n". A
// trailing newline counts as starting one more (empty) line.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}
