package literate

import (
	"regexp"
	"strings"
)

var referenceLineRE = regexp.MustCompile(`^(\s*)<<([^<>\s]+)>>\s*$`)

// matchReferenceLine implements the pinned open-question rule: only a line
// matching ^\s*<<NAME>>\s*$ triggers expansion. Returns the captured
// leading-whitespace prefix and the referenced name.
func matchReferenceLine(line string) (prefix string, name string) {
	m := referenceLineRE.FindStringSubmatch(line)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// AnnotationMode controls marker emission during tangle.
type AnnotationMode int

const (
	AnnotationStandard AnnotationMode = iota
	AnnotationNaked
	AnnotationSupplemental
)

// HookRunner is the subset of the hook registry the tangle engine needs;
// satisfied by *hooks.Registry without this package importing it.
type HookRunner interface {
	PreTangle(block CodeBlock) CodeBlock
	PostTangle(content string, firstBlock CodeBlock) string
}

type noopHooks struct{}

func (noopHooks) PreTangle(b CodeBlock) CodeBlock                { return b }
func (noopHooks) PostTangle(c string, _ CodeBlock) string        { return c }

// Engine expands a ReferenceMap's blocks into tangled file content.
type Engine struct {
	Mode  AnnotationMode
	Hooks HookRunner
}

func NewEngine(mode AnnotationMode, hooks HookRunner) *Engine {
	if hooks == nil {
		hooks = noopHooks{}
	}
	return &Engine{Mode: mode, Hooks: hooks}
}

// Tangle produces the full text of the file composed by name (normally a
// target-based ReferenceName looked up via refmap.Targets()).
func (e *Engine) Tangle(refmap *ReferenceMap, name ReferenceName) (string, error) {
	var sb strings.Builder
	stack := map[ReferenceName]bool{}
	var firstBlock CodeBlock
	haveFirst := false

	var expand func(n ReferenceName, prefix string, out *strings.Builder) error
	expand = func(n ReferenceName, prefix string, out *strings.Builder) error {
		blocks := refmap.BlocksFor(n)
		if len(blocks) == 0 {
			return newErr(KindReferenceError, "", 0, n.Rendered(), "undefined: "+n.Rendered())
		}
		if stack[n] {
			return newErr(KindReferenceError, "", 0, n.Rendered(), "cycle: "+n.Rendered())
		}
		stack[n] = true
		defer delete(stack, n)

		for _, raw := range blocks {
			b := e.Hooks.PreTangle(raw)
			if !haveFirst {
				firstBlock = b
				haveFirst = true
			}
			if e.Mode != AnnotationNaked {
				cs := CommentStyleFor(b.Language)
				marker := cs.Wrap("~/~ begin <<" + ReferenceId{Name: n, Ordinal: b.Id.Ordinal}.String() + ">>")
				writeIndented(out, prefix, marker)
			}
			for _, line := range b.Source {
				if refPrefix, refName := matchReferenceLine(line); refName != "" {
					if err := expand(ReferenceName{Symbol: refName}, prefix+refPrefix, out); err != nil {
						return err
					}
					continue
				}
				writeIndented(out, prefix, line)
			}
			if e.Mode != AnnotationNaked {
				cs := CommentStyleFor(b.Language)
				marker := cs.Wrap("~/~ end")
				writeIndented(out, prefix, marker)
			}
		}
		return nil
	}

	if err := expand(name, "", &sb); err != nil {
		return "", err
	}
	content := sb.String()
	if haveFirst {
		content = e.Hooks.PostTangle(content, firstBlock)
	}
	return content, nil
}

// writeIndented appends line to out with prefix prepended, unless line is
// empty — blank emitted lines receive no indentation, to avoid trailing
// whitespace.
func writeIndented(out *strings.Builder, prefix, line string) {
	if line != "" {
		out.WriteString(prefix)
		out.WriteString(line)
	}
	out.WriteByte('\n')
}
