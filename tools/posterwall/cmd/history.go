package cmd

import (
	"github.com/spf13/cobra"
)

// historyCmd lists the download history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List downloaded originals, most recent first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := appClient.History()
		if err != nil {
			return err
		}
		if len(recs) == 0 && !renderer.JSON() {
			console.Info("No downloads yet.")
			return nil
		}
		return renderer.History(recs)
	},
}

// historyForgetCmd removes entries from the download history.
var historyForgetCmd = &cobra.Command{
	Use:   "forget FILENAME...",
	Short: "Remove files from the download history so they are downloaded again.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			exists, err := database.DownloadExists(name)
			if err != nil {
				return err
			}
			if !exists {
				console.Warn("%s is not in the history", name)
				continue
			}
			if err := database.DeleteDownload(name); err != nil {
				return err
			}
			console.Success("Forgot %s", name)
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyForgetCmd)
}
