package literate

import "gopkg.in/yaml.v3"

// decodeFrontMatter decodes the YAML block found between the document's
// opening and closing `---` lines into an opaque map. The core never
// assigns semantics to its contents; it is surfaced for hooks and the CLI.
func decodeFrontMatter(block string) (map[string]any, error) {
	if block == "" {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(block), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
