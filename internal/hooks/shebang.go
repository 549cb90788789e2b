package hooks

import (
	"strings"

	"github.com/eykd/entwine/internal/literate"
)

const shebangExtraKey = "__shebang"

// ShebangHook strips a leading #! line from a block's body in pre-tangle
// and restores it at the top of the file in post-tangle, if the block was
// the first one composing that target.
type ShebangHook struct{}

func (ShebangHook) PreTangle(block literate.CodeBlock) literate.CodeBlock {
	idx := firstNonBlank(block.Source)
	if idx == -1 || !strings.HasPrefix(block.Source[idx], "#!") {
		return block
	}
	shebang := block.Source[idx]
	src := append([]string(nil), block.Source[:idx]...)
	src = append(src, block.Source[idx+1:]...)
	block.Source = src
	if block.Extras == nil {
		block.Extras = map[string]string{}
	} else {
		extras := make(map[string]string, len(block.Extras)+1)
		for k, v := range block.Extras {
			extras[k] = v
		}
		block.Extras = extras
	}
	block.Extras[shebangExtraKey] = shebang
	return block
}

func (ShebangHook) PostTangle(content string, firstBlock literate.CodeBlock) string {
	shebang, ok := firstBlock.Extras[shebangExtraKey]
	if !ok {
		return content
	}
	return shebang + "\n" + content
}

func firstNonBlank(lines []string) int {
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			return i
		}
	}
	return -1
}
