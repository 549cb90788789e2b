// Package entangled wires the literate core (parsing, tangling, stitching)
// and the transactional store together into the three operations the
// command layer drives: tangle, stitch, and sync.
package entangled

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eykd/entwine/internal/hooks"
	"github.com/eykd/entwine/internal/literate"
	"github.com/eykd/entwine/internal/store"
)

// Context holds everything a top-level operation needs, constructed once
// per process and passed explicitly — there is no global config state.
type Context struct {
	BaseDir string
	Config  *Config
	Hooks   *hooks.Registry
	DB      *store.DB
	Log     *slog.Logger
}

// NewContext loads the file-state database from Config.FiledbPath and
// assembles the built-in hook registry.
func NewContext(baseDir string, cfg *Config, log *slog.Logger) (*Context, error) {
	if log == nil {
		log = slog.Default()
	}
	dbPath := cfg.FiledbPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(baseDir, dbPath)
	}
	db, err := store.LoadDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &Context{
		BaseDir: baseDir,
		Config:  cfg,
		Hooks:   hooks.BuildRegistry(cfg.Hooks.Shebang, cfg.Hooks.SpdxLicense),
		DB:      db,
		Log:     log,
	}, nil
}

func (c *Context) annotationMode() literate.AnnotationMode {
	switch c.Config.Annotation {
	case "naked":
		return literate.AnnotationNaked
	case "supplemental":
		return literate.AnnotationSupplemental
	default:
		return literate.AnnotationStandard
	}
}

func (c *Context) defaultDialect() literate.Dialect {
	switch c.Config.Style {
	case "pandoc":
		return literate.DialectPandoc
	case "quarto":
		return literate.DialectQuarto
	case "knitr":
		return literate.DialectKnitr
	default:
		return literate.DialectNative
	}
}

func (c *Context) resolveTarget(target string) string {
	p := target
	if c.Config.OutputDir != "" {
		p = filepath.Join(c.Config.OutputDir, target)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.BaseDir, p)
	}
	return p
}

func (c *Context) absSource(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(c.BaseDir, relPath)
}

// LoadSources discovers and parses every Markdown source matching the
// configured patterns (intersected with files, if non-empty) into one
// ReferenceMap.
func (c *Context) LoadSources(files []string) (*literate.ReferenceMap, []string, error) {
	rel, err := c.discover(files)
	if err != nil {
		return nil, nil, &literate.Error{Kind: literate.KindIoError, Path: c.BaseDir, Msg: err.Error()}
	}
	refmap := literate.NewReferenceMap()
	var warnings []string

	for _, relPath := range rel {
		abs := c.absSource(relPath)
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, nil, &literate.Error{Kind: literate.KindIoError, Path: relPath, Msg: err.Error()}
		}
		dialect := DialectForPath(relPath, c.defaultDialect())
		res, err := literate.ReadMarkdown(relPath, string(data), dialect, c.Config.StripQuartoOptions, c.Log)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, res.Warnings...)
		refmap.MarkSource(relPath)
		for _, b := range res.Blocks {
			if c.Config.NamespaceDefault == "file" && b.Target == "" {
				b.Name = relPath + "::" + b.Name
			}
			if _, err := refmap.Insert(b); err != nil {
				return nil, nil, err
			}
		}
	}
	return refmap, warnings, nil
}

func (c *Context) discover(files []string) ([]string, error) {
	return DiscoverSources(c.BaseDir, c.Config.SourcePatterns, files)
}

// DialectForPath applies the per-document dialect-selection rule by file
// extension.
func DialectForPath(path string, def literate.Dialect) literate.Dialect {
	return literate.DialectForExtension(filepath.Ext(path), def)
}

// Tangle parses all sources and, for every known target, emits Create or
// Write actions for targets whose content is new or changed.
func (c *Context) Tangle(files []string) (*store.Transaction, error) {
	refmap, warnings, err := c.LoadSources(files)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.Log.Warn(w)
	}

	engine := literate.NewEngine(c.annotationMode(), c.Hooks)
	txn := store.NewTransaction()

	targets := refmap.Targets()
	paths := make([]string, 0, len(targets))
	for p := range targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, target := range paths {
		name := targets[target]
		content, err := engine.Tangle(refmap, name)
		if err != nil {
			return nil, err
		}
		outPath := c.resolveTarget(target)
		existing, err := os.ReadFile(outPath)
		switch {
		case os.IsNotExist(err):
			txn.Create(outPath, []byte(content))
		case err != nil:
			return nil, &literate.Error{Kind: literate.KindIoError, Path: outPath, Msg: err.Error()}
		case string(existing) != content:
			txn.Write(outPath, []byte(content))
		}
	}
	return txn, nil
}

// Stitch parses all sources, then for each known target whose tangled file
// exists on disk, diffs it against the reference map and emits Write
// actions for the Markdown files whose patches are nonempty.
func (c *Context) Stitch(files []string) (*store.Transaction, error) {
	refmap, warnings, err := c.LoadSources(files)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.Log.Warn(w)
	}

	txn := store.NewTransaction()
	allPatches := map[string][]literate.Patch{}

	targets := refmap.Targets()
	paths := make([]string, 0, len(targets))
	for p := range targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, target := range paths {
		outPath := c.resolveTarget(target)
		data, err := os.ReadFile(outPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, &literate.Error{Kind: literate.KindIoError, Path: outPath, Msg: err.Error()}
		}
		root, warn, err := literate.ReadAnnotated(string(data))
		if err != nil {
			return nil, err
		}
		for _, w := range warn {
			c.Log.Warn(w, "path", outPath)
		}
		patches, warn2, err := literate.Plan(refmap, root)
		if err != nil {
			return nil, err
		}
		for _, w := range warn2 {
			c.Log.Warn(w, "path", outPath)
		}
		for mdPath, ps := range literate.GroupByPath(patches) {
			allPatches[mdPath] = append(allPatches[mdPath], ps...)
		}
	}

	mdPaths := make([]string, 0, len(allPatches))
	for p := range allPatches {
		mdPaths = append(mdPaths, p)
	}
	sort.Strings(mdPaths)

	for _, mdPath := range mdPaths {
		ps := allPatches[mdPath]
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].StartLine > ps[j].StartLine })
		abs := c.absSource(mdPath)
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, &literate.Error{Kind: literate.KindIoError, Path: mdPath, Msg: err.Error()}
		}
		lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
		trailingNewline := len(lines) > 0 && lines[len(lines)-1] == ""
		if trailingNewline {
			lines = lines[:len(lines)-1]
		}
		newLines := literate.ApplyPatches(lines, ps)
		newContent := strings.Join(newLines, "\n")
		if trailingNewline || strings.HasSuffix(string(data), "\n") {
			newContent += "\n"
		}
		txn.Write(abs, []byte(newContent))
	}

	return txn, nil
}

// Sync runs stitch then tangle: stitch's transaction is executed and
// committed first so tangle observes any stitched edits, then tangle's
// transaction is returned unexecuted for the caller to apply.
func (c *Context) Sync(files []string, force bool) (*store.Transaction, error) {
	stitchTxn, err := c.Stitch(files)
	if err != nil {
		return nil, err
	}
	if !stitchTxn.IsEmpty() {
		if err := stitchTxn.Execute(c.DB, force, c.Log); err != nil {
			return nil, err
		}
		if err := c.DB.Save(); err != nil {
			return nil, err
		}
	}
	return c.Tangle(files)
}
