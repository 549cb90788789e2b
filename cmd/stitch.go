package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStitchCmd(flags *rootFlags) *cobra.Command {
	var force bool
	var files []string

	c := &cobra.Command{
		Use:   "stitch",
		Short: "Propagate edits from tangled files back into the Markdown sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log, err := buildContext(flags)
			if err != nil {
				return exitErr(cmd, err)
			}
			txn, err := ctx.Stitch(files)
			if err != nil {
				return exitErr(cmd, err)
			}
			if txn.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "stitch: nothing to propagate")
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
