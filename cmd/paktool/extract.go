package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
)

func newExtractCommand(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "extract <archive> [file]...",
		Short: "Extract files from an archive",
		Long: `Extract files from an archive.

Files are selected by name or glob pattern; with none given every file
is extracted. Output paths are confined to the output directory.`,
		Example: `  paktool extract archive.pak
  paktool extract archive.pak 'boot/*' -o /tmp/out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.openArchive(args[0], false)
			if err != nil {
				return err
			}
			found, err := archive.Find(args[1:]...)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			root, err := os.OpenRoot(outDir)
			if err != nil {
				return err
			}
			defer root.Close()

			for e := range found.Files() {
				data, err := e.Data()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Extracting %s\n", e.Name())
				if dir := path.Dir(e.Name()); dir != "." {
					if err := root.MkdirAll(dir, 0o750); err != nil {
						return fmt.Errorf("extract %s: %w", e.Name(), err)
					}
				}
				if err := root.WriteFile(e.Name(), data, 0o644); err != nil {
					return fmt.Errorf("extract %s: %w", e.Name(), err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "outdir", "o", ".", "output directory")
	return cmd
}
