// Package cmd implements the entwine command-line surface: cobra
// subcommands that drive the internal/entangled orchestrator, plus the
// config/discovery/watch glue the core leaves to external collaborators.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eykd/entwine/internal/entangled"
	"github.com/eykd/entwine/internal/literate"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	baseDir string
	debug   bool
	json    bool
}

// NewRootCmd builds the entwine root command and wires its subcommands.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "entwine",
		Short:         "Bidirectional literate-programming tangle/stitch engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.baseDir, "project", ".", "base directory to operate on")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flags.json, "json", false, "has no effect; all output is plain text")

	root.AddCommand(newTangleCmd(flags))
	root.AddCommand(newStitchCmd(flags))
	root.AddCommand(newSyncCmd(flags))
	root.AddCommand(newDoctorCmd(flags))
	root.AddCommand(newLocateCmd(flags))
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newWatchCmd(flags))

	return root
}

// buildContext resolves config and constructs the orchestrator Context
// shared by every mutating subcommand.
func buildContext(flags *rootFlags) (*entangled.Context, *slog.Logger, error) {
	log := entangled.NewLogger(os.Stderr, flags.debug)
	cfg, _, err := entangled.LoadConfig(flags.baseDir, log)
	if err != nil {
		return nil, log, err
	}
	ctx, err := entangled.NewContext(flags.baseDir, cfg, log)
	if err != nil {
		return nil, log, err
	}
	return ctx, log, nil
}

// emitError prints a diagnostic for err and returns the process exit code
// its Kind maps to. A non-core error (e.g. a file-watcher failure) exits 5.
func emitError(cmd *cobra.Command, err error) int {
	if lerr, ok := err.(*literate.Error); ok {
		printDiagnostic(cmd.ErrOrStderr(), "error", lerr.Error())
		if lerr.Kind == literate.KindFileConflict {
			fmt.Fprintln(cmd.ErrOrStderr(), "hint: rerun with --force, or inspect the file listed above")
		}
		return lerr.Kind.ExitCode()
	}
	printDiagnostic(cmd.ErrOrStderr(), "error", err.Error())
	return 5
}
