package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/pak"
)

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <archive> [hashfile]",
		Short: "Check an archive's integrity",
		Long: `Check an archive's integrity.

Every entry is decompressed and checked against its declared size. When
a CBOR hash list written by "paktool hash" is given, every listed entry
is also re-hashed and compared.`,
		Example: `  paktool verify archive.pak
  paktool verify archive.pak archive.hash`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := a.openArchive(args[0], false)
			if err != nil {
				return err
			}
			if err := archive.Verify(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				fmt.Fprintf(out, "%d entries OK\n", archive.Len())
				return nil
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("%w: %s", pak.ErrFileNotFound, args[1])
				}
				return err
			}
			list, err := pak.DecodeHashList(data)
			if err != nil {
				return err
			}
			mismatches, err := archive.VerifyHashList(list)
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				fmt.Fprintf(out, "FAILED %s\n", m)
			}
			if len(mismatches) > 0 {
				return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d entries failed verification", len(mismatches), len(list.Entries))}
			}
			fmt.Fprintf(out, "%d entries OK (%s)\n", len(list.Entries), list.Algorithm)
			return nil
		},
	}
}
