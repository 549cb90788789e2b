package entangled

import (
	"io"
	"log/slog"
)

// NewLogger builds the structured logger used for the warning log channel
// (orphan markers, unknown config keys, unterminated fences). It is
// distinct from the CLI's human-readable diagnostic output.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
