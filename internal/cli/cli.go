// Package cli implements the command-line interface of gembuild.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bazelgem/gembuild/internal/config"
)

// version is set at build time to a Git tag or the string
// "development version" when not tagging a release.
var version = "unknown version"

// getVersion returns a string that can be printed when calling
// 'gembuild --version'.
func getVersion() string {
	return "gembuild " + version
}

// newRootCmd builds the root command, including the five-positional-
// argument contract.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gembuild BUILD_FILE GEMFILE_LOCK RUNTIME_REPO SRCS_LIST WORKSPACE_NAME",
		Short:   "Generate Bazel build targets from a Gemfile.lock",
		Long: "Generate per-gem fetch and install targets, group bundles, and " +
			"all-gems aggregates from a Bundler lockfile, then run buildifier " +
			"on the result.",
		Version: getVersion(),
		Args:    cobra.ExactArgs(5),
		Run: func(cmd *cobra.Command, args []string) {
			runGenerate(args[0], args[1], args[2], args[3], args[4])
		},
	}
	rootCmd.SetVersionTemplate(`{{.Version}}` + "\n")
	rootCmd.PersistentFlags().BoolVarP(
		&config.Quiet, "quiet", "q", false, "don't show progress messages",
	)
	rootCmd.PersistentFlags().BoolP(
		"help", "h", false, "display command-line usage",
	)
	rootCmd.PersistentFlags().BoolP(
		"version", "v", false, "display command version",
	)
	return rootCmd
}

// DoCLI reads the command-line arguments and runs the generation
// pipeline, then exits the process (or returns to indicate normal
// exit).
func DoCLI() {
	// On an argument-count mismatch cobra has already printed the
	// error and usage to stderr; nothing has been written to disk
	// at that point.
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
