package cliconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/perpetuallyhorni/posterwall/pkg/config"
)

// Config extends the core config with CLI-specific options.
type Config struct {
	config.Config   `koanf:",squash"`
	DatabasePath    string `koanf:"database_path"`
	Editor          string `koanf:"editor"`
	LogLevel        string `koanf:"log_level"`
	CheckForUpdates bool   `koanf:"check_for_updates"`
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join(config.AppName, "config.yaml"))
	if err != nil {
		return "", fmt.Errorf("failed to get default config path: %w", err)
	}
	return p, nil
}

// Default returns the default CLI configuration.
func Default() (*Config, error) {
	coreCfg := config.Default()
	dbPath, err := xdg.DataFile(filepath.Join(config.AppName, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to get default db path: %w", err)
	}

	return &Config{
		Config:          *coreCfg,
		DatabasePath:    dbPath,
		Editor:          "", // resolved by the 'edit' command
		LogLevel:        "info",
		CheckForUpdates: false,
	}, nil
}

// Load loads the configuration from path, creating a commented default file
// there first if it does not exist. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	defCfg, err := Default()
	if err != nil {
		return nil, err
	}
	cfgPath := path
	if cfgPath == "" {
		if cfgPath, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		if err := createDefaultConfig(cfgPath, defCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg := defCfg
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Blank values in the file fall back to the defaults.
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defCfg.DatabasePath
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = config.Default().DownloadPath
	}
	return cfg, nil
}

// createDefaultConfig creates a default configuration file.
func createDefaultConfig(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	content := fmt.Sprintf(`# posterwall CLI configuration file.
site:
  # Where the archive's page documents (cache/*.json) are hosted.
  site_url: "%s"
  # Path of the image mirror below site_url.
  image_path: "%s"
  # Base of "download original" links.
  raw_url: "%s"
  # Source repository of the archive.
  repo_url: "%s"
# Language of page messages. Options: "zh", "en".
language: "%s"
# Path where downloaded originals are saved.
download_path: "%s"
# Number of concurrent downloads.
max_workers: %d
# Minimum pause between two downloads, e.g. "500ms", "2s". "0s" disables it.
rate_limit: "%s"
# Extra attempts for a failed download.
retries: %d
# Path to the SQLite database recording downloaded originals.
database_path: "%s"
# Editor to use for the 'edit' command. If empty, it will check $EDITOR, then common editors.
editor: "%s"
# Log file level. Options: "debug", "info", "warn", "error".
log_level: "%s"
# Check GitHub for a newer release on start-up.
check_for_updates: %t
`, cfg.Site.SiteURL, cfg.Site.ImagePath, cfg.Site.RawURL, cfg.Site.RepoURL,
		cfg.Language, cfg.DownloadPath, cfg.MaxWorkers, cfg.RateLimit, cfg.Retries,
		cfg.DatabasePath, cfg.Editor, cfg.LogLevel, cfg.CheckForUpdates)
	content = strings.ReplaceAll(content, "\\", "/")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}
	return nil
}
