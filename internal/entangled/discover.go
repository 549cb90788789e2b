package entangled

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverSources walks baseDir matching patterns (doublestar globs,
// supporting "**"), returning paths relative to baseDir. When explicit is
// non-empty, the result is intersected with it.
func DiscoverSources(baseDir string, patterns []string, explicit []string) ([]string, error) {
	fsys := os.DirFS(baseDir)
	seen := map[string]bool{}
	var out []string
	for _, pat := range patterns {
		matches, err := doublestar.Glob(fsys, pat)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	if len(explicit) == 0 {
		return out, nil
	}
	want := map[string]bool{}
	for _, e := range explicit {
		rel, err := filepath.Rel(baseDir, e)
		if err != nil {
			rel = e
		}
		want[filepath.ToSlash(rel)] = true
		want[filepath.ToSlash(e)] = true
	}
	var filtered []string
	for _, m := range out {
		if want[m] {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}
