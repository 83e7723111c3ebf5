package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/pkg/client"
	"github.com/perpetuallyhorni/posterwall/pkg/storage/sqlite"
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/cli"
	cliconfig "github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/config"
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/update"
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// cfg stores the application configuration.
	cfg *cliconfig.Config
	// appClient renders pages and downloads originals.
	appClient *client.Client
	// console is the CLI console for status output.
	console *cli.Console
	// renderer writes pages to stdout.
	renderer *view.Renderer
	// logger is the diagnostic file logger.
	logger = zap.NewNop()
	// logCloser releases the log file.
	logCloser io.Closer
	// database records downloaded originals.
	database *sqlite.DB
	// flagConfigPath is the path to the config file.
	flagConfigPath string
	// flagQuiet enables or disables quiet mode.
	flagQuiet bool
	// version is the version of the application. It is set at build time.
	version string
)

// SetVersion sets the version of the application.
func SetVersion(v string) {
	version = v
	if rootCmd != nil {
		rootCmd.Version = v
	}
}

// lightweightCommands run without the database and the page client.
var lightweightCommands = []string{"completion", "edit", "debug", "update", "help"}

func isLightweight(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		for _, name := range lightweightCommands {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}

var rootCmd = &cobra.Command{
	Use:   "posterwall",
	Short: "Browse and download the posterwall archive from the terminal.",
	Long: `Browse and download the posterwall archive from the terminal.

The archive is a statically hosted gallery: a category list, a gallery per
category and a detail view per poster. For example:
  posterwall list
  posterwall category 电影
  posterwall show 12
  posterwall open "https://perpetuallyhorni.github.io/posterwall/detail.html?id=12"
  posterwall download --category 电影`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" {
			return nil
		}

		cleanLogs, _ := cmd.Flags().GetBool("clean-logs")
		debug, _ := cmd.Flags().GetBool("debug")
		fileLogger, closer, err := setupLogger(cfg, cleanLogs, debug)
		if err != nil {
			return fmt.Errorf("failed to set up file logger: %w", err)
		}
		logger, logCloser = fileLogger, closer
		asJSON, _ := cmd.Flags().GetBool("json")
		renderer = view.New(cmd.OutOrStdout(), asJSON)

		if isLightweight(cmd) {
			return nil
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		database, err = sqlite.New(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("error initializing database: %w", err)
		}
		appClient, err = client.New(&cfg.Config, database, logger)
		if err != nil {
			return fmt.Errorf("error creating client: %w", err)
		}

		if cfg.CheckForUpdates {
			checkForUpdate(cmd.Context())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderRequest(cmd, gallery.ListRequest())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func checkForUpdate(ctx context.Context) {
	u, err := update.New(cfg.Site.RepoURL)
	if err != nil {
		logger.Warn("Update check skipped", zap.Error(err))
		return
	}
	latest, err := u.CheckForUpdate(ctx, version)
	if err != nil {
		console.Warn("Update check failed: %v", err)
		return
	}
	if latest != "" {
		console.Warn("A new version of posterwall is available: %s. Run 'posterwall update' to upgrade.", console.Bold.Sprint(latest))
	}
}

func closeResources() error {
	var errs []error
	if database != nil {
		errs = append(errs, database.Close())
		database = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	if logCloser != nil {
		errs = append(errs, logCloser.Close())
		logCloser = nil
	}
	return errors.Join(errs...)
}

// init initializes the command line interface.
func init() {
	console = cli.New(false)

	cobra.OnInitialize(func() {
		if val, err := rootCmd.Flags().GetBool("quiet"); err == nil && val {
			flagQuiet = true
			console = cli.New(true)
		}

		var err error
		cfg, err = cliconfig.Load(flagConfigPath)
		if err != nil {
			console.Error("Error loading config: %v", err)
			os.Exit(1)
		}

		applyFlagOverrides(rootCmd, cfg)
	})

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet mode, no console output except for errors")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug info to stderr and log file")
	rootCmd.PersistentFlags().Bool("clean-logs", false, "Redact sensitive info (paths, home directory) from log files")
	rootCmd.PersistentFlags().Bool("json", false, "Write pages and results as JSON")

	rootCmd.PersistentFlags().String("site", "", "Base URL of the archive (overrides config)")
	rootCmd.PersistentFlags().String("lang", "", `Language of page messages ("zh", "en"). Overrides config.`)
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save originals (overrides config)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "Number of concurrent downloads (overrides config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(updateCmd)
}

// Execute executes the root command and returns the process exit code.
// Ctrl-C cancels in-flight requests.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	code := report(rootCmd.ExecuteContext(ctx))
	if err := closeResources(); err != nil {
		console.Error("Error closing resources: %v", err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

// report prints err for the user and returns the exit code.
// An empty page is reported but is not a failure.
func report(err error) int {
	if err == nil {
		return 0
	}
	if pe, ok := gallery.AsPageError(err); ok {
		if renderer != nil && renderer.JSON() {
			_ = renderer.PageError(pe)
		} else {
			console.Error("%s", pe.Message)
		}
		logger.Debug("Page error", zap.Stringer("kind", pe.Kind), zap.Error(pe.Err))
		if pe.Kind == gallery.EmptyResult {
			return 0
		}
		return 1
	}
	if errors.Is(err, context.Canceled) {
		console.Warn("Interrupted.")
		return 130
	}
	console.Error("Error: %v", err)
	return 1
}
