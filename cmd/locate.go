package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eykd/entwine/internal/entangled"
	"github.com/eykd/entwine/internal/literate"
)

func newLocateCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "locate <path> <line>",
		Short: "Map a tangled file's line back to its Markdown origin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return exitErr(cmd, &literate.Error{Kind: literate.KindOther, Msg: "line must be an integer: " + args[1]})
			}
			ctx, _, err := buildContext(flags)
			if err != nil {
				return exitErr(cmd, err)
			}
			refmap, _, err := ctx.LoadSources(nil)
			if err != nil {
				return exitErr(cmd, err)
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return exitErr(cmd, &literate.Error{Kind: literate.KindIoError, Path: args[0], Msg: err.Error()})
			}
			result, ok := entangled.Locate(refmap, string(content), line)
			if !ok {
				return exitErr(cmd, &literate.Error{Kind: literate.KindOther, Path: args[0], Line: line, Msg: "could not locate origin for this line"})
			}
			if result.BlockID != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d (%s)\n", sanitizePath(result.MarkdownPath), result.MarkdownLine, result.BlockID.String())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d\n", sanitizePath(result.MarkdownPath), result.MarkdownLine)
			}
			return nil
		},
	}
	return c
}
