package cmd

import (
	"github.com/spf13/cobra"
)

var configFormat string

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, $HOME/.config/prepush/config.toml,
the repository's .prepush.toml, PREPUSH_* environment variables and flags.

Empty project_dir and source mean they are derived from the installer location.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigCommand(cmd)
	},
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "toml", "output format: toml or yaml")
	rootCmd.AddCommand(configCmd)
}

func runConfigCommand(cmd *cobra.Command) error {
	ictx, err := resolveInstallContext(cmd)
	if err != nil {
		return err
	}

	out, err := ictx.cfg.Marshal(configFormat)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
