package hooks

import (
	"strings"

	"github.com/eykd/entwine/internal/literate"
)

const spdxExtraKey = "__spdx_license"
const spdxMarker = "SPDX-License-Identifier:"

// SPDXHook strips a leading SPDX-License-Identifier comment line from a
// block's body in pre-tangle and restores it at the top of the file in
// post-tangle, matching ShebangHook's shape.
type SPDXHook struct{}

func (SPDXHook) PreTangle(block literate.CodeBlock) literate.CodeBlock {
	idx := firstNonBlank(block.Source)
	if idx == -1 || !strings.Contains(block.Source[idx], spdxMarker) {
		return block
	}
	line := block.Source[idx]
	src := append([]string(nil), block.Source[:idx]...)
	src = append(src, block.Source[idx+1:]...)
	block.Source = src
	extras := make(map[string]string, len(block.Extras)+1)
	for k, v := range block.Extras {
		extras[k] = v
	}
	extras[spdxExtraKey] = line
	block.Extras = extras
	return block
}

func (SPDXHook) PostTangle(content string, firstBlock literate.CodeBlock) string {
	line, ok := firstBlock.Extras[spdxExtraKey]
	if !ok {
		return content
	}
	return line + "\n" + content
}
