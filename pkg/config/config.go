package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// AppName is used for config, state and data directories.
const AppName = "posterwall"

// Site holds the static addresses of the archive. It is built once at
// startup and passed to everything that produces links.
type Site struct {
	SiteURL   string `koanf:"site_url"`   // Where the page documents (cache/*.json) are hosted.
	ImagePath string `koanf:"image_path"` // Path of the image mirror below SiteURL.
	RawURL    string `koanf:"raw_url"`    // Base of raw (original) download links.
	RepoURL   string `koanf:"repo_url"`   // Source repository of the archive.
}

// Config struct holds the core, application-agnostic configuration.
type Config struct {
	Site         Site   `koanf:"site"`
	Language     string `koanf:"language"`      // UI language of page messages ("zh", "en").
	DownloadPath string `koanf:"download_path"` // Where originals are saved.
	MaxWorkers   int    `koanf:"max_workers"`   // Concurrent downloads.
	RateLimit    string `koanf:"rate_limit"`    // Minimum pause between downloads, e.g. "500ms".
	Retries      int    `koanf:"retries"`       // Extra attempts for a failed download.
}

// DefaultSite returns the addresses of the public archive.
func DefaultSite() Site {
	return Site{
		SiteURL:   "https://perpetuallyhorni.github.io/posterwall/",
		ImagePath: "assets/",
		RawURL:    "https://raw.githubusercontent.com/perpetuallyhorni/posterwall/main/assets/",
		RepoURL:   "https://github.com/perpetuallyhorni/posterwall",
	}
}

// Default returns the default core configuration.
func Default() *Config {
	var defaultPath string
	if dir := xdg.UserDirs.Pictures; dir != "" {
		defaultPath = filepath.Join(dir, AppName)
	} else {
		defaultPath = filepath.Join("downloads", AppName)
	}
	return &Config{
		Site:         DefaultSite(),
		Language:     "zh",
		DownloadPath: defaultPath,
		MaxWorkers:   4,
		RateLimit:    "500ms",
		Retries:      2,
	}
}

// Validate checks the site addresses.
func (s Site) Validate() error {
	for name, raw := range map[string]string{"site_url": s.SiteURL, "raw_url": s.RawURL} {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid %s %q: must be an http(s) URL", name, raw)
		}
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", c.MaxWorkers)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries cannot be negative, got %d", c.Retries)
	}
	return nil
}
