package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <archive> [file]...",
		Short: "Remove files from an archive",
		Long: `Remove files from an archive and rewrite it in place.

Files are selected by name or glob pattern; with none given every entry
is removed.`,
		Example: `  paktool remove archive.pak boot/sbe.bin
  paktool remove archive.pak '*.img'`,
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
			for e := range found.All() {
				if e.IsPad() {
					fmt.Fprintln(cmd.OutOrStdout(), "Removing pad")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removing %s\n", e.Name())
				}
				archive.Remove(e)
			}
			return archive.Save()
		},
	}
}
