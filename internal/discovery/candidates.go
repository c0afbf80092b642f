package discovery

import (
	"sort"
	"strings"
)

// lowSignalDirs hold generated, vendored or asset content that is not worth
// mapping.
var lowSignalDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	"public":       true,
	"static":       true,
	"tmp":          true,
	"log":          true,
}

// CandidateDirectories returns the directories worth scoring for a set of
// root-relative files: the root ("") for top-level files plus the first one
// and two path segments of nested files. Directories containing a low-signal
// segment are dropped. The result is sorted.
func CandidateDirectories(files []string) []string {
	dirs := make(map[string]struct{})

	for _, file := range files {
		parts := strings.Split(file, "/")

		if len(parts) == 1 {
			dirs[""] = struct{}{}
		}
		if len(parts) >= 2 {
			dirs[parts[0]] = struct{}{}
		}
		if len(parts) >= 3 {
			dirs[parts[0]+"/"+parts[1]] = struct{}{}
		}
	}

	result := make([]string, 0, len(dirs))
	for dir := range dirs {
		if !IsLowSignalDirectory(dir) {
			result = append(result, dir)
		}
	}

	sort.Strings(result)
	return result
}

// IsLowSignalDirectory reports whether any segment of dir is a low-signal
// name. The root is never low-signal.
func IsLowSignalDirectory(dir string) bool {
	if dir == "" {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if lowSignalDirs[part] {
			return true
		}
	}
	return false
}
