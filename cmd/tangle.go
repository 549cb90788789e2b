package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eykd/entwine/internal/store"
)

func newTangleCmd(flags *rootFlags) *cobra.Command {
	var force bool
	var files []string

	c := &cobra.Command{
		Use:   "tangle",
		Short: "Extract source files from the Markdown documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log, err := buildContext(flags)
			if err != nil {
				return exitErr(cmd, err)
			}
			txn, err := ctx.Tangle(files)
			if err != nil {
				return exitErr(cmd, err)
			}
			if txn.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "tangle: up to date")
				return nil
			}
			if err := txn.Execute(ctx.DB, force, log); err != nil {
				return exitErr(cmd, err)
			}
			if err := ctx.DB.Save(); err != nil {
				return exitErr(cmd, err)
			}
			reportTransaction(cmd, txn)
			return nil
		},
	}
	c.Flags().BoolVar(&force, "force", false, "overwrite externally-modified files")
	c.Flags().StringArrayVar(&files, "file", nil, "restrict to these source files")
	return c
}

// reportTransaction prints one line per applied action, with humanized
// byte sizes for created/written files.
func reportTransaction(cmd *cobra.Command, txn *store.Transaction) {
	out := cmd.OutOrStdout()
	for _, a := range txn.Actions {
		switch a.Kind {
		case store.ActionCreate:
			fmt.Fprintf(out, "create  %s (%s)\n", sanitizePath(a.Path), humanize.Bytes(uint64(len(a.Content))))
		case store.ActionWrite:
			fmt.Fprintf(out, "write   %s (%s)\n", sanitizePath(a.Path), humanize.Bytes(uint64(len(a.Content))))
		case store.ActionDelete:
			fmt.Fprintf(out, "delete  %s\n", sanitizePath(a.Path))
		}
	}
}

// exitErr prints the diagnostic for err and returns it wrapped so cobra's
// caller (main) can recover the intended process exit code.
func exitErr(cmd *cobra.Command, err error) error {
	code := emitError(cmd, err)
	return &exitCodeError{code: code, err: err}
}

type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }
func (e *exitCodeError) ExitCode() int { return e.code }
