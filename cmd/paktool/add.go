package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meigma/pak"
	"github.com/meigma/pak/internal/walk"
)

func newAddCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <archive> <file>...",
		Short: "Add files to an archive or replace existing files",
		Long: `Add files to an archive or replace existing files.

The archive is created if it does not exist. Directories are added
recursively. Entries are named by the path as given, so a file added
again replaces the earlier copy.`,
		Example: `  paktool add archive.pak file1 file2
  paktool add archive.pak images/ -m zstd`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := a.method()
			if err != nil {
				return err
			}
			archive, err := a.openArchive(args[0], true)
			if err != nil {
				return err
			}

			sources, err := expandSources(cmd, a, args[1:])
			if err != nil {
				return err
			}
			for _, src := range sources {
				e, err := archive.AddFile(src, method, src)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Adding %s\n", e.Name())
			}
			return archive.Save()
		},
	}
	cmd.Flags().StringP(keyMethod, "m", "", "compression method: store, zlib, zstd, lz4")
	return cmd
}

// expandSources replaces every directory argument with the regular files
// below it. Missing arguments fail before anything is added.
func expandSources(cmd *cobra.Command, a *app, args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", pak.ErrFileNotFound, arg)
			}
			return nil, err
		}
		if !info.IsDir() {
			sources = append(sources, arg)
			continue
		}
		files, err := walk.Files(cmd.Context(), arg, a.logger)
		if err != nil {
			return nil, err
		}
		for _, rel := range files {
			sources = append(sources, filepath.Join(arg, filepath.FromSlash(rel)))
		}
	}
	return sources, nil
}
