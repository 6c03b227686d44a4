package cmd

import (
	"github.com/spf13/cobra"

	"thoreinstein.com/prepush/pkg/hook"
	"thoreinstein.com/prepush/pkg/ui"
)

// statusCmd reports on the installed hook
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the pre-push hook is installed and current",
	Long: `Report on the hook at the resolved hooks directory without changing anything.

Shows whether the hook exists, whether it is executable, whether it matches
the bundled script byte for byte, and how its version compares to the
bundled version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatusCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCommand(cmd *cobra.Command) error {
	ictx, err := resolveInstallContext(cmd)
	if err != nil {
		return err
	}

	st, err := ictx.installer.Status(ictx.request)
	if err != nil {
		return err
	}

	out := ui.NewPrinter(cmd.OutOrStdout())
	out.Field("Hook", st.HookPath)
	if st.Location.Submodule {
		out.Field("Git directory", st.Location.GitDir+" (from .git file)")
	}

	if !st.Installed {
		out.Warn("Not installed. Run 'prepush' to install it.")
		return nil
	}

	out.Field("Installed version", orUnknown(st.InstalledVersion))
	out.Field("Bundled version", orUnknown(st.BundledVersion))

	switch {
	case !st.Executable:
		out.Warn("Installed but not executable; git will skip it. Re-run 'prepush'.")
	case st.UpToDate:
		out.Success("Installed and identical to the bundled hook")
	case st.Comparison == hook.VersionOutdated:
		out.Warn("Installed hook is older than the bundled one. Re-run 'prepush'.")
	case st.Comparison == hook.VersionNewer:
		out.Warn("Installed hook is newer than the bundled one.")
	default:
		out.Warn("Installed hook differs from the bundled one.")
	}

	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
