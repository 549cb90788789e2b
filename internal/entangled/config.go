package entangled

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/eykd/entwine/internal/literate"
)

// LanguageEntry extends the built-in language table via [[languages]].
type LanguageEntry struct {
	Name        string   `toml:"name"`
	Identifiers []string `toml:"identifiers"`
	Comment     string   `toml:"comment"` // "line:#" or "block:/*:*/"
}

// Config mirrors entangled.toml's recognized keys.
type Config struct {
	Version            string          `toml:"version"`
	SourcePatterns     []string        `toml:"source_patterns"`
	OutputDir          string          `toml:"output_dir"`
	Style              string          `toml:"style"`
	StripQuartoOptions bool            `toml:"strip_quarto_options"`
	Annotation         string          `toml:"annotation"`
	NamespaceDefault   string          `toml:"namespace_default"`
	FiledbPath         string          `toml:"filedb_path"`
	Watch              WatchConfig     `toml:"watch"`
	Hooks              HooksConfig     `toml:"hooks"`
	Languages          []LanguageEntry `toml:"languages"`
}

type WatchConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

type HooksConfig struct {
	Shebang     bool `toml:"shebang"`
	SpdxLicense bool `toml:"spdx_license"`
}

var knownTopLevelKeys = map[string]bool{
	"version": true, "source_patterns": true, "output_dir": true, "style": true,
	"strip_quarto_options": true, "annotation": true, "namespace_default": true,
	"filedb_path": true, "watch": true, "hooks": true, "languages": true,
}

// DefaultConfig returns the documented defaults, used when no config file
// is found.
func DefaultConfig() *Config {
	return &Config{
		Version:            "1.0",
		SourcePatterns:     []string{"**/*.md", "**/*.qmd", "**/*.Rmd"},
		Style:              "entangled-rs",
		StripQuartoOptions: true,
		Annotation:         "standard",
		NamespaceDefault:   "none",
		FiledbPath:         ".entangled/filedb.json",
	}
}

// FindConfigFile searches from baseDir upward for entangled.toml or
// .entangled.toml, returning "" if neither is found anywhere above baseDir.
func FindConfigFile(baseDir string) (string, error) {
	dir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range []string{"entangled.toml", ".entangled.toml"} {
			candidate := filepath.Join(dir, name)
			if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadConfig finds and decodes a config file from baseDir upward, or
// returns DefaultConfig() if none exists. Unknown top-level keys are
// logged as warnings, never a hard error.
func LoadConfig(baseDir string, log *slog.Logger) (*Config, string, error) {
	if log == nil {
		log = slog.Default()
	}
	path, err := FindConfigFile(baseDir)
	if err != nil {
		return nil, "", &literate.Error{Kind: literate.KindIoError, Path: baseDir, Msg: err.Error()}
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, &literate.Error{Kind: literate.KindIoError, Path: path, Msg: err.Error()}
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, path, &literate.Error{Kind: literate.KindConfigError, Path: path, Msg: err.Error()}
	}
	for k := range raw {
		if !knownTopLevelKeys[k] {
			log.Warn("unknown config key ignored", "key", k, "path", path)
		}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, path, &literate.Error{Kind: literate.KindConfigError, Path: path, Msg: err.Error()}
	}

	for _, l := range cfg.Languages {
		cs := parseCommentSpec(l.Comment)
		literate.RegisterLanguage(l.Name, cs)
		for _, id := range l.Identifiers {
			literate.RegisterLanguage(id, cs)
		}
	}

	return cfg, path, nil
}

// parseCommentSpec decodes a [[languages]] comment field: "line:#" or
// "block:/*:*/"
func parseCommentSpec(spec string) literate.CommentStyle {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) == 0 {
		return literate.CommentStyle{Line: "#"}
	}
	switch parts[0] {
	case "block":
		if len(parts) == 3 {
			return literate.CommentStyle{Open: parts[1], Close: parts[2]}
		}
	case "line":
		if len(parts) == 2 {
			return literate.CommentStyle{Line: parts[1]}
		}
	}
	return literate.CommentStyle{Line: "#"}
}
