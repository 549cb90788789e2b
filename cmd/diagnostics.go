package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// printDiagnostic writes one severity-tagged line, colorized only when w is
// a terminal.
func printDiagnostic(w io.Writer, severity, message string) {
	color, ok := colorFor(severity)
	if !ok || !isTerminal(w) {
		fmt.Fprintf(w, "%s: %s\n", severity, sanitizePath(message))
		return
	}
	fmt.Fprintf(w, "%s%s%s: %s\n", color, severity, ansiReset, sanitizePath(message))
}

func colorFor(severity string) (string, bool) {
	switch severity {
	case "error":
		return ansiRed, true
	case "warning":
		return ansiYellow, true
	default:
		return "", false
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
