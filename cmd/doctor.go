package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eykd/entwine/internal/literate"
)

func newDoctorCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "doctor",
		Short: "Check reference-map invariants without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := buildContext(flags)
			if err != nil {
				return exitErr(cmd, err)
			}
			refmap, warnings, err := ctx.LoadSources(nil)
			if err != nil {
				return exitErr(cmd, err)
			}

			var problems []string
			for _, w := range warnings {
				problems = append(problems, "warning: "+w)
			}

			targets := refmap.Targets()
			paths := make([]string, 0, len(targets))
			for p := range targets {
				paths = append(paths, p)
			}
			sort.Strings(paths)

			engine := literate.NewEngine(literate.AnnotationNaked, nil)
			worstKind := literate.KindOther
			hasError := false
			for _, p := range paths {
				if _, err := engine.Tangle(refmap, targets[p]); err != nil {
					hasError = true
					if lerr, ok := err.(*literate.Error); ok {
						problems = append(problems, fmt.Sprintf("error: %s", lerr.Error()))
						worstKind = lerr.Kind
					} else {
						problems = append(problems, "error: "+err.Error())
					}
				}
			}

			for _, p := range problems {
				severity := "warning"
				if len(p) >= 6 && p[:6] == "error:" {
					severity = "error"
				}
				printDiagnostic(cmd.ErrOrStderr(), severity, p)
			}
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "doctor: no problems found")
				return nil
			}
			if hasError {
				return &exitCodeError{code: worstKind.ExitCode(), err: fmt.Errorf("doctor found %d problem(s)", len(problems))}
			}
			return nil
		},
	}
	return c
}
