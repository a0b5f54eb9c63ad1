package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meigma/pak/manifest"
)

func newBuildCommand(a *app) *cobra.Command {
	var basePath, outDir, name string
	cmd := &cobra.Command{
		Use:   "build <manifest>",
		Short: "Build an archive from a manifest",
		Long: `Build an archive from a manifest.

Writes <name>.pak and <name>.manifest (the resolved mapping) to the
output directory. Manifest problems are all reported together and the
exit status is the number of problems found.`,
		Example: `  paktool build image.yaml
  paktool build image.yaml -b $EKB_IMAGE_OUT
  paktool build image.toml -o /tmp -n release`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := a.method()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			m := manifest.New(manifest.WithLogger(a.logger), manifest.WithDefaultMethod(method))
			fmt.Fprintf(out, "Manifest file: %s\n", args[0])
			if err := m.Parse(args[0]); err != nil {
				return manifestExit(err)
			}
			if err := m.Build(cmd.Context(), basePath); err != nil {
				return manifestExit(err)
			}

			archive, err := m.CreateArchive(a.archiveOptions()...)
			if err != nil {
				return err
			}
			pakPath := filepath.Join(outDir, name+".pak")
			if err := archive.SaveAs(pakPath); err != nil {
				return err
			}
			manifestPath := filepath.Join(outDir, name+".manifest")
			if err := writeSnapshot(m, manifestPath); err != nil {
				return err
			}

			a.logger.Info("archive built",
				slog.String("archive", pakPath),
				slog.Int("entries", archive.Len()),
				slog.Int("bytes", archive.Size()))
			fmt.Fprintf(out, "Manifest: %s\nArchive: %s\n", manifestPath, pakPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&basePath, "basepath", "b", "", "base path for manifest sources (default is the manifest directory)")
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to place output in")
	cmd.Flags().StringVarP(&name, "name", "n", "image", "name to give the output files")
	cmd.Flags().StringP(keyMethod, "m", "", "default compression method for declarations without one")
	return cmd
}

func writeSnapshot(m *manifest.Manifest, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := m.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
