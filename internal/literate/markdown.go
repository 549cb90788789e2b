package literate

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var fenceOpenerRE = regexp.MustCompile("^([ \t]*)([`~]{3,})(.*)$")

// ReadResult carries everything the Markdown reader extracts from one file.
type ReadResult struct {
	Blocks      []CodeBlock
	FrontMatter map[string]any // decoded YAML front matter, opaque to the core
	Warnings    []string
}

// ReadMarkdown scans content line-by-line, pairs fence openers with their
// matching closers, classifies each fenced block, and returns the blocks
// that carry a #name or file= target (prose examples are skipped).
func ReadMarkdown(path string, content string, dialect Dialect, stripQuartoOptions bool, log *slog.Logger) (ReadResult, error) {
	if log == nil {
		log = slog.Default()
	}
	lines := splitLines(content)
	res := ReadResult{}

	start := 0
	if len(lines) > 0 && strings.TrimRight(lines[0], "\r") == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimRight(lines[i], "\r") == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			res.Warnings = append(res.Warnings, path+": unterminated YAML front matter")
			log.Warn("unterminated front matter", "path", path)
		} else {
			fm, err := decodeFrontMatter(strings.Join(lines[1:end], "\n"))
			if err != nil {
				return res, newErr(KindMarkdownError, path, 1, "", "front matter: "+err.Error())
			}
			res.FrontMatter = fm
			start = end + 1
		}
	}

	i := start
	for i < len(lines) {
		line := lines[i]
		m := fenceOpenerRE.FindStringSubmatch(line)
		if m == nil {
			i++
			continue
		}
		indent, run, info := m[1], m[2], m[3]
		fenceChar := run[0]
		minLen := len(run)
		openerLine := i + 1 // 1-based
		bodyStart := i + 1
		closeIdx := -1
		for j := bodyStart; j < len(lines); j++ {
			cm := fenceOpenerRE.FindStringSubmatch(lines[j])
			if cm == nil {
				continue
			}
			crun := cm[2]
			if strings.TrimSpace(cm[3]) != "" {
				continue
			}
			if crun[0] != fenceChar || len(crun) < minLen {
				continue
			}
			closeIdx = j
			break
		}
		if closeIdx == -1 {
			res.Warnings = append(res.Warnings, path+": unterminated fence at line "+strconv.Itoa(openerLine))
			log.Warn("unterminated fence", "path", path, "line", openerLine)
			i = len(lines)
			break
		}
		body := append([]string(nil), lines[bodyStart:closeIdx]...)
		props, strippedBody, err := ParseProperties(info, dialect, body, stripQuartoOptions, path, openerLine)
		if err != nil {
			return res, err
		}
		if props.Name == "" && props.Target == "" {
			// Prose example: not inserted into the reference map.
			i = closeIdx + 1
			continue
		}
		block := CodeBlock{
			Name:     props.Name,
			Language: props.Language,
			Source:   ensureTrailingBlank(strippedBody),
			Target:   props.Target,
			Origin: Origin{
				SourcePath:   path,
				OpenerLine:   openerLine,
				ContentLines: len(strippedBody),
			},
			Extras: props.Attrs,
		}
		_ = indent
		res.Blocks = append(res.Blocks, block)
		i = closeIdx + 1
	}
	return res, nil
}

func ensureTrailingBlank(lines []string) []string {
	return append([]string(nil), lines...)
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
