package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/adrg/xdg"
	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/pkg/config"
	"github.com/perpetuallyhorni/posterwall/pkg/logging"
	cliconfig "github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// applyFlagOverrides applies command-line flag overrides to the configuration.
func applyFlagOverrides(cmd *cobra.Command, cfg *cliconfig.Config) {
	if cmd.Flag("dir").Changed {
		cfg.DownloadPath, _ = cmd.Flags().GetString("dir")
	}
	if cmd.Flag("workers").Changed {
		if val, _ := cmd.Flags().GetInt("workers"); val > 0 {
			cfg.MaxWorkers = val
		}
	}
	if cmd.Flag("site").Changed {
		cfg.Site.SiteURL, _ = cmd.Flags().GetString("site")
	}
	if cmd.Flag("lang").Changed {
		lang, _ := cmd.Flags().GetString("lang")
		cfg.Language = gallery.MatchLanguage(lang)
	}
	if cmd.Flag("debug").Changed {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			cfg.LogLevel = "debug"
		}
	}
}

// logPath returns the location of the diagnostic log.
func logPath() (string, error) {
	p, err := xdg.StateFile(filepath.Join(config.AppName, "app.log"))
	if err != nil {
		return "", fmt.Errorf("could not get log file path: %w", err)
	}
	return p, nil
}

// setupLogger sets up the diagnostic file logger. With debug set it also
// writes to stderr.
func setupLogger(cfg *cliconfig.Config, clean, debug bool) (*zap.Logger, io.Closer, error) {
	path, err := logPath()
	if err != nil {
		return nil, nil, err
	}
	return logging.New(logging.Options{
		Level:        cfg.LogLevel,
		File:         path,
		Stderr:       debug,
		Redact:       clean,
		DownloadPath: cfg.DownloadPath,
	})
}

// renderRequest renders a page request to stdout.
func renderRequest(cmd *cobra.Command, req gallery.Request) error {
	logger.Debug("Rendering page", zap.Stringer("page", req.Kind), zap.String("link", req.Link()))
	page, err := appClient.Render(cmd.Context(), req)
	if err != nil {
		return err
	}
	return renderer.Page(page)
}
