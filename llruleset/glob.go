package llruleset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// expandGlobPaths expands any glob pattern among patterns into the
// concrete paths it matches, leaving plain paths untouched. Patterns
// are resolved relative to cwd.
//
// The expansion is tuned to PATH_BENEATH semantics rather than to
// general-purpose glob matching: Landlock grants access to a whole
// subtree at once, so "dir/**" resolves to just "dir" instead of
// walking and returning every descendant individually.
func expandGlobPaths(patterns []string, cwd string) []string {
	var expanded []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			expanded = append(expanded, p)
		}
	}

	for _, pattern := range patterns {
		pattern = normalizeGlobPath(pattern)

		if !containsGlobChars(pattern) {
			add(pattern)
			continue
		}

		// "dir/**": Landlock already covers descendants once the
		// parent fd is granted, so just resolve the directory itself.
		if strings.HasSuffix(pattern, "/**") && !strings.Contains(strings.TrimSuffix(pattern, "/**"), "**") {
			dir := strings.TrimSuffix(pattern, "/**")
			if !strings.HasPrefix(dir, "/") {
				dir = filepath.Join(cwd, dir)
			}
			add(dir)
			continue
		}

		searchBase, searchPattern := splitGlobBase(pattern, cwd)
		fsys := os.DirFS(searchBase)
		matches, err := doublestar.Glob(fsys, searchPattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			add(filepath.Join(searchBase, m))
		}
	}

	return expanded
}

// splitGlobBase finds the longest glob-free path prefix of pattern so
// doublestar can search from a concrete, existing base directory.
func splitGlobBase(pattern, cwd string) (base, rest string) {
	if strings.HasPrefix(pattern, "/") {
		parts := strings.Split(pattern, "/")
		var baseParts []string
		for _, p := range parts {
			if containsGlobChars(p) {
				break
			}
			baseParts = append(baseParts, p)
		}
		base = strings.Join(baseParts, "/")
		if base == "" {
			base = "/"
		}
		rest = strings.TrimPrefix(pattern, base)
		rest = strings.TrimPrefix(rest, "/")
		return base, rest
	}
	return cwd, pattern
}

func containsGlobChars(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// normalizeGlobPath resolves "." and ".." components without touching
// symlinks, and strips a trailing slash.
func normalizeGlobPath(p string) string {
	if p == "" {
		return p
	}
	clean := filepath.Clean(p)
	return clean
}
