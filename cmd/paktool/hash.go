package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newHashCommand(a *app) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "hash <archive> <hashfile> [file]...",
		Short: "Hash a set of archived files",
		Long: `Hash a set of archived files and write the hash list to hashfile.

Each selected entry's compressed data is hashed, in archive order. With
no files given every file in the archive is hashed. The list is CBOR
unless --text is set, which writes "algorithm:hex  name" lines.`,
		Example: `  paktool hash archive.pak archive.hash
  paktool hash archive.pak boot.hash 'boot/*' -a blake3 --text`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := a.algorithm()
			if err != nil {
				return err
			}
			archive, err := a.openArchive(args[0], false)
			if err != nil {
				return err
			}
			found, err := archive.Find(args[2:]...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Creating hashes")
			list, err := found.HashList(alg)
			if err != nil {
				return err
			}
			for _, e := range list.Entries {
				fmt.Fprintf(out, "  %s\n", e.Name)
			}

			var contents []byte
			if text {
				var lines string
				if lines, err = list.Text(); err != nil {
					return err
				}
				contents = []byte(lines)
			} else if contents, err = list.Marshal(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Writing hash %s\n", args[1])
			if err := os.WriteFile(args[1], contents, 0o644); err != nil {
				return fmt.Errorf("write hash list: %w", err)
			}
			a.logger.Debug("hash list written",
				slog.String("file", args[1]),
				slog.String("algorithm", alg.String()),
				slog.Int("entries", len(list.Entries)))
			return nil
		},
	}
	cmd.Flags().StringP(keyAlgorithm, "a", "", "hash algorithm (default sha3_512)")
	cmd.Flags().BoolVar(&text, "text", false, "write a text hash list instead of CBOR")
	return cmd
}
