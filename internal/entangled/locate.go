package entangled

import (
	"strings"

	"github.com/eykd/entwine/internal/literate"
)

// LocateResult is the answer to the locate operation: where a tangled
// output line originated.
type LocateResult struct {
	MarkdownPath string
	MarkdownLine int
	BlockID      *literate.ReferenceId // nil when the queried line is a marker line itself
}

type locateFrame struct {
	id        literate.ReferenceId
	bodyCount int
}

// Locate replays marker nesting over a tangled file's content to map
// queryLine (1-based) back to its Markdown origin.
func Locate(refmap *literate.ReferenceMap, tangledContent string, queryLine int) (LocateResult, bool) {
	lines := strings.Split(strings.ReplaceAll(tangledContent, "\r\n", "\n"), "\n")
	var stack []locateFrame

	for i, line := range lines {
		lineNo := i + 1
		kind, id, ok := literate.ParseMarkerLine(line)
		if ok && kind == literate.MarkerBegin {
			if lineNo == queryLine {
				if block, found := refmap.Get(id); found {
					return LocateResult{MarkdownPath: block.Origin.SourcePath, MarkdownLine: block.Origin.OpenerLine}, true
				}
				return LocateResult{}, false
			}
			// The frames a reference expands into (ordinals 0..k-1) stand for
			// one reference line in the enclosing block's Markdown body.
			if len(stack) > 0 && id.Ordinal == 0 {
				stack[len(stack)-1].bodyCount++
			}
			stack = append(stack, locateFrame{id: id})
			continue
		}
		if ok && kind == literate.MarkerEnd {
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if lineNo == queryLine {
				if block, found := refmap.Get(top.id); found {
					return LocateResult{MarkdownPath: block.Origin.SourcePath, MarkdownLine: block.Origin.OpenerLine}, true
				}
				return LocateResult{}, false
			}
			continue
		}
		if len(stack) == 0 {
			continue
		}
		top := &stack[len(stack)-1]
		if lineNo == queryLine {
			block, found := refmap.Get(top.id)
			if !found {
				return LocateResult{}, false
			}
			mdLine := block.Origin.OpenerLine + 1 + top.bodyCount
			id := top.id
			return LocateResult{MarkdownPath: block.Origin.SourcePath, MarkdownLine: mdLine, BlockID: &id}, true
		}
		top.bodyCount++
	}
	return LocateResult{}, false
}
