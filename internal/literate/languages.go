package literate

// CommentStyle is the tagged alternative used for annotation markers: a
// language either wraps markers in a single-line comment, or in a block
// comment's open/close delimiters.
type CommentStyle struct {
	Line  string // e.g. "#", "//", "--"; empty if this language uses block comments
	Open  string // e.g. "/*", "<!--", "(*"
	Close string // e.g. "*/", "-->", "*)"
}

func (c CommentStyle) IsBlock() bool { return c.Line == "" }

// Wrap returns text wrapped for this comment style.
func (c CommentStyle) Wrap(text string) string {
	if c.IsBlock() {
		return c.Open + " " + text + " " + c.Close
	}
	return c.Line + " " + text
}

// languageTable maps a language identifier (as it appears in a fence's
// properties) to its comment style. Extended at runtime by [[languages]]
// config entries via RegisterLanguage.
var languageTable = map[string]CommentStyle{
	"python":     {Line: "#"},
	"py":         {Line: "#"},
	"sh":         {Line: "#"},
	"bash":       {Line: "#"},
	"shell":      {Line: "#"},
	"yaml":       {Line: "#"},
	"toml":       {Line: "#"},
	"ruby":       {Line: "#"},
	"r":          {Line: "#"},
	"go":         {Line: "//"},
	"c":          {Open: "/*", Close: "*/"},
	"cpp":        {Open: "/*", Close: "*/"},
	"c++":        {Open: "/*", Close: "*/"},
	"java":       {Line: "//"},
	"javascript": {Line: "//"},
	"js":         {Line: "//"},
	"typescript": {Line: "//"},
	"ts":         {Line: "//"},
	"rust":       {Line: "//"},
	"rs":         {Line: "//"},
	"haskell":    {Line: "--"},
	"hs":         {Line: "--"},
	"sql":        {Line: "--"},
	"lua":        {Line: "--"},
	"html":       {Open: "<!--", Close: "-->"},
	"xml":        {Open: "<!--", Close: "-->"},
	"markdown":   {Open: "<!--", Close: "-->"},
	"ocaml":      {Open: "(*", Close: "*)"},
	"ml":         {Open: "(*", Close: "*)"},
	"lisp":       {Line: ";;"},
	"scheme":     {Line: ";;"},
	"clojure":    {Line: ";;"},
	"makefile":   {Line: "#"},
	"dockerfile": {Line: "#"},
}

// CommentStyleFor looks up the comment style for a language identifier,
// falling back to "#" for unknown languages (the common scripting default).
func CommentStyleFor(language string) CommentStyle {
	if cs, ok := languageTable[language]; ok {
		return cs
	}
	return CommentStyle{Line: "#"}
}

// RegisterLanguage extends the language table, used by the config layer to
// apply [[languages]] entries.
func RegisterLanguage(name string, cs CommentStyle) {
	languageTable[name] = cs
}
