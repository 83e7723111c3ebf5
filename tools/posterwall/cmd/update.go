package cmd

import (
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/update"
	"github.com/spf13/cobra"
)

// updateCmd represents the update command.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update posterwall to the latest version.",
	Long: `Checks the latest release of the repository configured as site.repo_url and,
if a newer version is found, downloads and installs it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := update.New(cfg.Site.RepoURL)
		if err != nil {
			return err
		}
		return u.ApplyUpdate(cmd.Context(), console, version)
	},
}
