package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "paktool",
		Short: "Work with hardware .pak files",
		Long: `paktool builds, inspects and edits pak archives: single-file bundles of
firmware and hardware image files.

Settings can come from flags, PAKTOOL_* environment variables or a
paktool.yaml / paktool.toml file in the working directory or the user
configuration directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./paktool.yaml)")
	root.PersistentFlags().String(keyLogLevel, "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().String(keyMaxEntrySize, "0", "largest entry to load or add, e.g. 256MiB (0 means no limit)")

	root.AddCommand(
		newBuildCommand(a),
		newAddCommand(a),
		newExtractCommand(a),
		newListCommand(a),
		newRemoveCommand(a),
		newHashCommand(a),
		newMergeCommand(a),
		newVerifyCommand(a),
	)
	return root
}
