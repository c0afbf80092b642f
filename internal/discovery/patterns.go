package discovery

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// compilePatterns compiles user-supplied ignore globs with '/' as separator.
func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{pattern: pattern, glob: g})
	}
	return compiled, nil
}

// matchesAnyPattern checks if a path matches any of the given patterns.
// A directory path also matches patterns written for its contents, so
// "generated" is caught by "generated/**".
func matchesAnyPattern(relPath string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(relPath) || cp.glob.Match(relPath+"/**") {
			return true
		}
	}

	// Root-level entries also match "**/" patterns with the prefix dropped, so
	// "**/*.pb.go" covers both "api.pb.go" and "api/v1/api.pb.go".
	if !strings.Contains(relPath, "/") {
		for _, cp := range patterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			simplified, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/')
			if err == nil && simplified.Match(relPath) {
				return true
			}
		}
	}

	return false
}

// readGitignore parses the root-level .gitignore of fsys. A missing file
// yields no patterns.
func readGitignore(fsys billy.Filesystem) ([]gitignore.Pattern, error) {
	data, err := util.ReadFile(fsys, ".gitignore")
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return parseGitignore(data), nil
}

// parseGitignore turns .gitignore content into root-anchored patterns,
// dropping blank lines and comments.
func parseGitignore(data []byte) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}
