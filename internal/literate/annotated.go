package literate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	beginMarkerRE = regexp.MustCompile(`^(\s*)\S.*~/~\s+begin\s+<<(.+)\[(\d+)\]>>.*$`)
	endMarkerRE   = regexp.MustCompile(`^(\s*)\S.*~/~\s+end\b.*$`)
)

func parseMarkerName(rendered string) ReferenceName {
	if strings.HasPrefix(rendered, "file:") {
		return ReferenceName{Target: strings.TrimPrefix(rendered, "file:")}
	}
	return ReferenceName{Symbol: rendered}
}

// MarkerKind classifies a parsed annotation marker line.
type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerBegin
	MarkerEnd
)

// ParseMarkerLine recognizes a begin/end annotation marker line, returning
// its kind and (for begin) the referenced id. Used by the locate operation;
// it matches the same marker patterns the annotated-code reader uses.
func ParseMarkerLine(line string) (kind MarkerKind, id ReferenceId, ok bool) {
	if m := beginMarkerRE.FindStringSubmatch(line); m != nil {
		ord, err := strconv.Atoi(m[3])
		if err != nil {
			return MarkerNone, ReferenceId{}, false
		}
		return MarkerBegin, ReferenceId{Name: parseMarkerName(m[2]), Ordinal: ord}, true
	}
	if endMarkerRE.MatchString(line) {
		return MarkerEnd, ReferenceId{}, true
	}
	return MarkerNone, ReferenceId{}, false
}

// ReadAnnotated parses the full text of a tangled file back into a tree of
// AnnotatedBlock frames, the inverse of Engine.Tangle's marker emission.
// The returned root is synthetic (zero Id) and holds any content outside
// every begin/end pair as its own Body.
func ReadAnnotated(content string) (*AnnotatedBlock, []string, error) {
	var warnings []string
	root := &AnnotatedBlock{}
	stack := []*AnnotatedBlock{root}

	lines := splitLines(content)
	for _, line := range lines {
		if m := beginMarkerRE.FindStringSubmatch(line); m != nil {
			ord, err := strconv.Atoi(m[3])
			if err != nil {
				warnings = append(warnings, "malformed ordinal in marker: "+line)
				cur := stack[len(stack)-1]
				cur.Body = append(cur.Body, line)
				continue
			}
			frame := &AnnotatedBlock{
				Id:     ReferenceId{Name: parseMarkerName(m[2]), Ordinal: ord},
				prefix: m[1],
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, frame)
			stack = append(stack, frame)
			continue
		}
		if endMarkerRE.MatchString(line) {
			if len(stack) == 1 {
				warnings = append(warnings, "unmatched end marker treated as literal: "+line)
				stack[0].Body = append(stack[0].Body, line)
				continue
			}
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			popped.Body = stripFramePrefix(popped)
			continue
		}
		cur := stack[len(stack)-1]
		cur.Body = append(cur.Body, line)
	}

	if len(stack) > 1 {
		warnings = append(warnings, "unclosed annotation frame(s) at EOF: discarded")
		for _, frame := range stack[1:] {
			parent := findParent(root, frame)
			if parent != nil {
				parent.Children = removeChild(parent.Children, frame)
			}
		}
	}

	return root, warnings, nil
}

// stripFramePrefix removes the begin-marker's indentation prefix from each
// of a frame's direct body lines, the inverse of the tangle indent rule. A
// line whose prefix doesn't match is kept verbatim and the frame is flagged.
func stripFramePrefix(frame *AnnotatedBlock) []string {
	if frame.prefix == "" {
		return frame.Body
	}
	out := make([]string, len(frame.Body))
	for i, l := range frame.Body {
		if l == "" {
			out[i] = l
			continue
		}
		if strings.HasPrefix(l, frame.prefix) {
			out[i] = strings.TrimPrefix(l, frame.prefix)
		} else {
			out[i] = l
			frame.prefixFlawed = true
		}
	}
	return out
}

func findParent(root *AnnotatedBlock, target *AnnotatedBlock) *AnnotatedBlock {
	for _, c := range root.Children {
		if c == target {
			return root
		}
		if p := findParent(c, target); p != nil {
			return p
		}
	}
	return nil
}

func removeChild(children []*AnnotatedBlock, target *AnnotatedBlock) []*AnnotatedBlock {
	out := children[:0]
	for _, c := range children {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}
