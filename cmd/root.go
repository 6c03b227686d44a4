package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	preerrors "thoreinstein.com/prepush/pkg/errors"
	"thoreinstein.com/prepush/pkg/ui"
)

var cfgFile string
var verbose bool
var projectDirFlag string
var sourceFlag string

// executablePath locates the running installer. Tests replace it.
var executablePath = os.Executable

// rootCmd installs the hook when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "prepush",
	Short: "Install the bundled git pre-push hook",
	Long: `Prepush installs the bundled pre-push hook into this project's git hooks directory.

The project is the parent of the directory holding the installer, and the hook
script is the pre-push file next to it. When the project is a submodule its
.git file is followed ("gitdir: <path>") so the hook lands in the real git
directory. Running it again overwrites the hook with the bundled copy.

Examples:
  scripts/prepush
  prepush --project-dir ~/src/app --source ~/src/app/scripts/pre-push
  prepush status`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstallCommand(cmd)
	},
}

// Execute runs the root command and exits non-zero on any failure.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, preerrors.FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/prepush/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&projectDirFlag, "project-dir", "", "repository root (default is the parent of the installer's directory)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "hook script to install (default is pre-push next to the installer)")
}

func runInstallCommand(cmd *cobra.Command) error {
	ictx, err := resolveInstallContext(cmd)
	if err != nil {
		return err
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.Step("Installing %s hook", ictx.request.HookName)
	if verbose {
		out.Field("Project", ictx.request.ProjectDir)
		out.Field("Source", ictx.request.Source)
	}

	res, err := ictx.installer.Install(ictx.request)
	if err != nil {
		if preerrors.IsInstallError(err) {
			ictx.logger.Debug("install failed", "kind", preerrors.KindOf(err))
		}
		return err
	}

	if res.Location.Submodule {
		out.Field("Git directory", res.Location.GitDir+" (from .git file)")
	}
	if res.Replaced {
		out.Field("Replaced", "existing hook overwritten")
	}
	out.Success("Installed %s hook to %s", ictx.request.HookName, res.HookPath)

	if len(res.Header.Summary) > 0 {
		out.Blank()
		out.Step("What the hook checks:")
		out.Lines(res.Header.Summary)
	}
	if res.Header.Version != "" {
		out.Field("Hook version", res.Header.Version)
	}

	return nil
}
