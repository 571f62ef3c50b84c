// Package resolver expands the source arguments into concrete file paths.
package resolver

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/satishbabariya/csvcombine/internal/debug"
)

// Resolve expands each pattern containing glob metacharacters into its
// matches, sorted within the pattern. Arguments without metacharacters pass
// through untouched so a missing literal path is reported later instead of
// silently vanishing. Pattern order is preserved; a pattern matching nothing
// contributes nothing, same as shell globbing.
func Resolve(fs afero.Fs, patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if !hasGlobMeta(pattern) {
			paths = append(paths, pattern)
			continue
		}

		matches, err := afero.Glob(fs, pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		debug.Debug("expanded pattern", "pattern", pattern, "matches", len(matches))
		paths = append(paths, matches...)
	}

	return paths, nil
}

// Matches reports whether path is covered by any of the patterns, including
// patterns the path did not exist for at resolve time. Literal patterns
// compare as cleaned paths.
func Matches(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if !hasGlobMeta(pattern) {
			if filepath.Clean(pattern) == filepath.Clean(path) {
				return true
			}
			continue
		}
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Dirs returns the unique directories the patterns live in, in pattern
// order. A bare pattern like "*.csv" maps to ".".
func Dirs(patterns []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		dir := filepath.Dir(pattern)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
