package cmd

import (
	"errors"
	"fmt"

	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/pkg/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// downloadCmd represents the 'download' command.
var downloadCmd = &cobra.Command{
	Use:     "download [IDs...]",
	Aliases: []string{"dl"},
	Short:   "Download the originals of posters.",
	Long: `Downloads the original image of each poster id, or of every poster in a
category with --category. Originals are saved to the download directory and
recorded in the download history; already downloaded files are skipped unless
--force is given. Posters whose images are not mirrored by the archive cannot
be downloaded and are reported as no_mirror.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("category", "", "Download every poster of this category")
	downloadCmd.Flags().BoolP("force", "f", false, "Download again even if the file is in the history")
}

// runDownload contains the core logic for downloading originals.
func runDownload(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	force, _ := cmd.Flags().GetBool("force")
	if (category == "") == (len(args) == 0) {
		return fmt.Errorf("give either poster ids or --category")
	}

	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := gallery.ParseID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	console.StartProgress("Loading archive...")
	progressCb := func(current, total int, msg string) {
		console.UpdateProgress(fmt.Sprintf("Downloading %d/%d: %s", current, total, msg))
	}

	var (
		results []client.DownloadResult
		err     error
	)
	if category != "" {
		console.Info("Downloading category '%s' with %d worker(s)...", category, cfg.MaxWorkers)
		results, err = appClient.DownloadCategory(cmd.Context(), category, force, progressCb)
	} else {
		results, err = appClient.DownloadOriginals(cmd.Context(), ids, force, progressCb)
	}
	console.StopProgress()

	if len(results) > 0 {
		if rerr := renderer.Downloads(results); rerr != nil {
			return rerr
		}
		summarize(results)
	}
	if err != nil {
		logger.Error("Download finished with errors", zap.Error(err))
		if errors.Is(err, gallery.ErrDiskSpace) {
			return fmt.Errorf("not enough disk space in %s, halting: %w", cfg.DownloadPath, err)
		}
		return err
	}
	return nil
}

func summarize(results []client.DownloadResult) {
	counts := map[client.DownloadStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	console.Success("%d downloaded, %d already present, %d without mirror.",
		counts[client.StatusDownloaded],
		counts[client.StatusSkipped]+counts[client.StatusAdopted],
		counts[client.StatusNoMirror])
}
