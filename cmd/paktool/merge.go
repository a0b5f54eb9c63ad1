package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <target> <archive>...",
		Short: "Merge archives",
		Long: `Merge archives into target.

If target exists it is loaded first. When names repeat across archives
only the last entry with that name is kept.`,
		Example: `  paktool merge target.pak archive1.pak archive2.pak`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := a.openArchive(args[0], true)
			if err != nil {
				return err
			}
			for _, path := range args[1:] {
				src, err := a.openArchive(path, false)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Merging %s (%d entries)\n", path, src.Len())
				target.Merge(src)
			}
			return target.Save()
		},
	}
}
