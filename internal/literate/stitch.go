package literate

import "sort"

// Patch replaces a contiguous line span [StartLine, EndLine] (1-based,
// inclusive) of a Markdown file with NewLines.
type Patch struct {
	MarkdownPath string
	StartLine    int
	EndLine      int
	NewLines     []string
}

// Plan diffs each leaf frame of an annotated tree against its origin block
// in refmap and returns the patches needed to bring the Markdown sources up
// to date with the tangled file's edits.
func Plan(refmap *ReferenceMap, root *AnnotatedBlock) ([]Patch, []string, error) {
	var patches []Patch
	var warnings []string

	var walk func(frame *AnnotatedBlock)
	walk = func(frame *AnnotatedBlock) {
		if len(frame.Children) == 0 && frame != root {
			block, ok := refmap.Get(frame.Id)
			if !ok {
				warnings = append(warnings, "orphaned marker, no such block: "+frame.Id.String())
				return
			}
			if linesEqual(block.Source, frame.Body) {
				return
			}
			start := block.Origin.OpenerLine + 1
			end := block.Origin.OpenerLine + block.Origin.ContentLines
			patches = append(patches, Patch{
				MarkdownPath: block.Origin.SourcePath,
				StartLine:    start,
				EndLine:      end,
				NewLines:     append([]string(nil), frame.Body...),
			})
			return
		}
		for _, c := range frame.Children {
			walk(c)
		}
	}
	walk(root)

	sort.SliceStable(patches, func(i, j int) bool {
		if patches[i].MarkdownPath != patches[j].MarkdownPath {
			return patches[i].MarkdownPath < patches[j].MarkdownPath
		}
		return patches[i].StartLine > patches[j].StartLine
	})

	return patches, warnings, nil
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GroupByPath groups already-sorted patches (descending by line within each
// path) by Markdown path, preserving relative order.
func GroupByPath(patches []Patch) map[string][]Patch {
	out := map[string][]Patch{}
	for _, p := range patches {
		out[p.MarkdownPath] = append(out[p.MarkdownPath], p)
	}
	return out
}

// ApplyPatches applies a path's patches (must be sorted descending by
// StartLine) to the original line slice, returning the new content lines.
func ApplyPatches(original []string, patches []Patch) []string {
	out := append([]string(nil), original...)
	for _, p := range patches {
		start := p.StartLine - 1
		end := p.EndLine
		if start < 0 {
			start = 0
		}
		if end > len(out) {
			end = len(out)
		}
		tail := append([]string(nil), out[end:]...)
		out = append(out[:start], append(append([]string(nil), p.NewLines...), tail...)...)
	}
	return out
}
