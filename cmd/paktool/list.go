package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/pak"
)

func newListCommand(a *app) *cobra.Command {
	var details, expand bool
	cmd := &cobra.Command{
		Use:   "list <archive> [file]...",
		Short: "List files in an archive",
		Long: `List files in an archive as a tree, or entry by entry with --details.

With --expand, entries that are themselves archives (by name, *.pak by
default) are replaced by their contents, named outer.pak>/inner, until
none remain. Name filters apply after expansion.`,
		Example: `  paktool list archive.pak
  paktool list archive.pak 'boot/*'
  paktool list archive.pak -d -e`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.openArchive(args[0], false)
			if err != nil {
				return err
			}
			if expand {
				if _, err := archive.Flatten(); err != nil {
					return err
				}
			}
			found, err := archive.Find(args[1:]...)
			if err != nil {
				return err
			}
			if _, err := found.Build(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if details {
				for e := range found.All() {
					fmt.Fprintln(out, e.Display())
				}
			} else {
				fmt.Fprintln(out, renderTree(filepath.Base(args[0]), found))
			}
			writeSummary(out, found)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&details, "details", "d", false, "print details for every entry")
	cmd.Flags().BoolVarP(&expand, "expand", "e", false, "expand embedded archives")
	cmd.Flags().String(keyNestedPattern, pak.DefaultNestedPattern, "pattern selecting embedded archives")
	return cmd
}

func writeSummary(w io.Writer, a *pak.Archive) {
	summary := fmt.Sprintf("\n%d files", a.FileCount())
	if pads := a.PadCount(); pads > 0 {
		summary += fmt.Sprintf(", %d pads", pads)
	}
	size := a.Size()
	summary += fmt.Sprintf(", total size: %s (0x%08X)", humanize.IBytes(uint64(size)), size)
	fmt.Fprintln(w, summary)
}
