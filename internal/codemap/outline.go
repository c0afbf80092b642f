package codemap

import (
	"context"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gobwas/glob"

	"github.com/mvp-joe/codemap/internal/discovery"
)

// configFileNames are matched against a file's base name.
var configFileNames = []string{
	".editorconfig", ".eslintrc", ".prettierrc",
	"tsconfig.json", "tsconfig.base.json",
	"webpack.config.js", "webpack.config.ts",
	"vite.config.js", "vite.config.ts",
	"package.json", "composer.json", "Makefile", "Dockerfile",
	".env", "docker-compose.yml",
}

// configExtensions mark configuration-like files by extension.
var configExtensions = []string{"yml", "yaml", "json", "toml", "ini", "cfg", "conf", "env"}

// outlineSkipDirs are pruned by name wherever they appear.
var outlineSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".codemap":     true,
	"dist":         true,
	"build":        true,
	"vendor":       true,
}

var (
	configNameGlob = glob.MustCompile("{"+strings.Join(configFileNames, ",")+"}", '/')
	configExtGlob  = glob.MustCompile("*.{"+strings.Join(configExtensions, ",")+"}", '/')
)

// IsConfigFile reports whether the base name of file marks it as
// configuration.
func IsConfigFile(file string) bool {
	base := path.Base(file)
	return configNameGlob.Match(base) || configExtGlob.Match(base)
}

// ConfigFile is a configuration file listed in the outline.
type ConfigFile struct {
	Path  string
	Lines int
}

// OutlineOptions configures an OutlineGenerator.
type OutlineOptions struct {
	// Source is rooted at the scan root.
	Source billy.Filesystem

	// Output is rooted at the output directory.
	Output billy.Filesystem

	// ExcludeDir is a root-relative directory left out of the config scan,
	// normally the output directory when it lives under the root.
	ExcludeDir string
}

// OutlineGenerator writes the tree-wide outline: the configuration files of
// the project followed by a manifest of the generated codemaps.
type OutlineGenerator struct {
	src        billy.Filesystem
	out        billy.Filesystem
	excludeDir string
}

// NewOutlineGenerator creates an OutlineGenerator.
func NewOutlineGenerator(opts OutlineOptions) *OutlineGenerator {
	return &OutlineGenerator{
		src:        opts.Source,
		out:        opts.Output,
		excludeDir: opts.ExcludeDir,
	}
}

// ConfigFiles walks the source tree and returns its configuration files with
// line counts, sorted by path. Unreadable files are left out.
func (o *OutlineGenerator) ConfigFiles(ctx context.Context) ([]ConfigFile, error) {
	files, err := discovery.Walk(ctx, o.src, func(relPath string, isDir bool) bool {
		if !isDir {
			return false
		}
		if outlineSkipDirs[path.Base(relPath)] {
			return true
		}
		return o.excludeDir != "" && relPath == o.excludeDir
	})
	if err != nil {
		return nil, err
	}

	var configs []ConfigFile
	for _, file := range files {
		if !IsConfigFile(file) {
			continue
		}
		content, err := util.ReadFile(o.src, file)
		if err != nil {
			log.Printf("Error reading %s: %v", file, err)
			continue
		}
		configs = append(configs, ConfigFile{Path: file, Lines: CountLines(string(content))})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Path < configs[j].Path
	})
	return configs, nil
}

// BuildOutline renders the outline for the given codemap artifacts. The
// codemap manifest is omitted when there are no codemaps.
func (o *OutlineGenerator) BuildOutline(ctx context.Context, codemaps []Artifact) (string, error) {
	configs, err := o.ConfigFiles(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# Config Files\n\n")
	for _, c := range configs {
		fmt.Fprintf(&sb, "%s (%d lines)\n", c.Path, c.Lines)
	}
	sb.WriteString("\n")

	if len(codemaps) > 0 {
		sorted := make([]Artifact, len(codemaps))
		copy(sorted, codemaps)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Path < sorted[j].Path
		})

		sb.WriteString("# Codemaps\n\n")
		for _, a := range sorted {
			fmt.Fprintf(&sb, "%s (%d lines)\n", a.Path, a.Lines)
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// WriteOutline renders the outline and writes it to OutlineFileName in the
// output directory.
func (o *OutlineGenerator) WriteOutline(ctx context.Context, codemaps []Artifact) (Artifact, error) {
	content, err := o.BuildOutline(ctx, codemaps)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to build outline: %w", err)
	}

	if err := util.WriteFile(o.out, OutlineFileName, []byte(content), 0644); err != nil {
		return Artifact{}, fmt.Errorf("failed to write %s: %w", OutlineFileName, err)
	}

	return Artifact{Path: OutlineFileName, Lines: CountLines(content)}, nil
}
