// SPDX-License-Identifier: MPL-2.0

// Package scan provides pure glob-based file discovery over a base directory.
//
// Scanning is a single function from (base directory, pattern list) to a
// deduplicated union of matches. There is no shared scan state: callers that
// need several inclusion rules against the same tree pass them in one call or
// merge the results themselves.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob returns the deduplicated union of all files under baseDir matching any
// of the given patterns. Patterns use doublestar syntax ("lib*/*.jar",
// "plugins/**/*.jar") and are matched relative to baseDir; results are
// absolute paths in lexical order.
//
// A missing baseDir yields an empty result, not an error: absent scan roots
// are an expected condition for optional inclusion rules. An invalid pattern
// is an error.
func Glob(baseDir string, patterns []string) ([]string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat scan root %s: %w", baseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", baseDir)
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root %s: %w", baseDir, err)
	}

	fsys := os.DirFS(absBase)
	seen := make(map[string]struct{})
	var matches []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}

		rel, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("globbing %q under %s: %w", pattern, absBase, err)
		}

		for _, r := range rel {
			abs := filepath.Join(absBase, filepath.FromSlash(r))
			if _, dup := seen[abs]; dup {
				continue
			}
			seen[abs] = struct{}{}
			matches = append(matches, abs)
		}
	}

	sort.Strings(matches)
	return matches, nil
}
