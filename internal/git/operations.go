package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Operations defines the interface for git operations.
// This allows mocking git commands in tests.
type Operations interface {
	// IsRepository reports whether projectPath is inside a git work tree.
	// Returns false when git is not installed.
	IsRepository(projectPath string) bool

	// ListFiles returns tracked and untracked files under projectPath,
	// relative to projectPath, with ignored files excluded.
	// The result is sorted and uses forward slashes.
	ListFiles(projectPath string) ([]string, error)
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) IsRepository(projectPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = projectPath
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "true"
}

func (g *gitOps) ListFiles(projectPath string) ([]string, error) {
	// -z keeps paths with unusual characters unquoted.
	cmd := exec.Command("git", "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	cmd.Dir = projectPath
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	return parseFileList(output), nil
}

// parseFileList splits NUL or newline separated git output into a sorted,
// deduplicated path list. A path can appear twice when it is both cached and
// reported as untracked during a merge.
func parseFileList(output []byte) []string {
	sep := []byte{0}
	if !bytes.Contains(output, sep) {
		sep = []byte{'\n'}
	}

	seen := make(map[string]struct{})
	var files []string
	for _, raw := range bytes.Split(output, sep) {
		file := strings.TrimSpace(string(raw))
		if file == "" {
			continue
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		files = append(files, file)
	}

	sort.Strings(files)
	return files
}
