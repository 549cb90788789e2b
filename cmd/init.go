package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/entwine/internal/literate"
)

const starterConfig = `version = "1.0"
source_patterns = ["**/*.md", "**/*.qmd", "**/*.Rmd"]
output_dir = "."
style = "entangled-rs"
strip_quarto_options = true
annotation = "standard"
namespace_default = "none"
filedb_path = ".entangled/filedb.json"

[watch]
debounce_ms = 300

[hooks]
shebang = true
spdx_license = false
`

func newInitCmd(flags *rootFlags) *cobra.Command {
	var force bool
	c := &cobra.Command{
		Use:   "init",
		Short: "Write a starter entangled.toml and .entangled/ directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := filepath.Join(flags.baseDir, "entangled.toml")
			if _, err := os.Stat(configPath); err == nil && !force {
				return exitErr(cmd, &literate.Error{Kind: literate.KindIoError, Path: configPath, Msg: "already exists; rerun with --force"})
			}
			if err := os.MkdirAll(filepath.Join(flags.baseDir, ".entangled"), 0o755); err != nil {
				return exitErr(cmd, &literate.Error{Kind: literate.KindIoError, Path: flags.baseDir, Msg: err.Error()})
			}
			if err := writeFileAtomic(configPath, []byte(starterConfig)); err != nil {
				return exitErr(cmd, &literate.Error{Kind: literate.KindIoError, Path: configPath, Msg: err.Error()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", sanitizePath(configPath))
			return nil
		},
	}
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return c
}

// writeFileAtomic writes via a temp file in the same directory followed by
// rename, mirroring the store package's transactional writes for the
// standalone files the CLI writes outside a Transaction.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
