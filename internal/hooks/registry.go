// Package hooks implements the pre_tangle/post_tangle content-transform
// pipeline: an ordered list of built-in hooks, enabled by config, wrapped
// symmetrically around the tangle engine's output.
package hooks

import "github.com/eykd/entwine/internal/literate"

// Hook is a content transform applied around tangling. Either method may be
// a no-op.
type Hook interface {
	// PreTangle may strip lines from a block's content before it is
	// emitted, returning a possibly-modified block.
	PreTangle(block literate.CodeBlock) literate.CodeBlock
	// PostTangle may inject lines back into the final emitted text for a
	// target, given the first block that composed it.
	PostTangle(content string, firstBlock literate.CodeBlock) string
}

// Registry runs hooks in registration order for pre-tangle and reverse
// order for post-tangle (a symmetric wrap).
type Registry struct {
	hooks []Hook
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(h Hook) { r.hooks = append(r.hooks, h) }

func (r *Registry) PreTangle(block literate.CodeBlock) literate.CodeBlock {
	for _, h := range r.hooks {
		block = h.PreTangle(block)
	}
	return block
}

func (r *Registry) PostTangle(content string, firstBlock literate.CodeBlock) string {
	for i := len(r.hooks) - 1; i >= 0; i-- {
		content = r.hooks[i].PostTangle(content, firstBlock)
	}
	return content
}

// BuildRegistry assembles the built-in hooks enabled by config flags, in a
// fixed registration order (shebang, then SPDX license).
func BuildRegistry(enableShebang, enableSPDX bool) *Registry {
	r := NewRegistry()
	if enableShebang {
		r.Register(&ShebangHook{})
	}
	if enableSPDX {
		r.Register(&SPDXHook{})
	}
	return r
}
