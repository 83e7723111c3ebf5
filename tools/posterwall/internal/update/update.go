package update

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/inconshreveable/go-update"
	"github.com/perpetuallyhorni/posterwall/tools/posterwall/internal/cli"
)

const (
	binaryName     = "posterwall"
	defaultAPIBase = "https://api.github.com"
)

// githubRelease represents the structure of a GitHub release API response.
type githubRelease struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name        string `json:"name"`
		DownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// Updater checks GitHub releases of a repository and replaces the running binary.
type Updater struct {
	// Repo is "owner/name".
	Repo       string
	APIBase    string
	HTTPClient *http.Client
}

// New returns an Updater for the repository at repoURL (https://github.com/owner/name).
func New(repoURL string) (*Updater, error) {
	repo := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(repoURL, "https://"), "github.com/"), "/")
	repo = strings.TrimSuffix(repo, ".git")
	if strings.Count(repo, "/") != 1 || strings.HasPrefix(repo, "/") {
		return nil, fmt.Errorf("repo_url %q is not a github.com repository", repoURL)
	}
	return &Updater{Repo: repo, APIBase: defaultAPIBase, HTTPClient: http.DefaultClient}, nil
}

// version represents a parsed version string.
type version struct {
	Major int
	Minor int
	Patch int
}

// parseVersion parses strings like "v1.2" or "v1.2.3".
func parseVersion(vStr string) (version, error) {
	vStr = strings.TrimPrefix(strings.TrimSpace(vStr), "v")
	parts := strings.Split(vStr, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return version{}, fmt.Errorf("invalid version format: %s", vStr)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return version{}, fmt.Errorf("invalid version component %q: %w", p, err)
		}
		nums[i] = n
	}
	return version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// lessThan compares two versions.
func (v version) lessThan(other version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// latestRelease fetches the latest release information from GitHub.
func (u *Updater) latestRelease(ctx context.Context) (*githubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimSuffix(u.APIBase, "/"), u.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status from GitHub API: %s", resp.Status)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release info: %w", err)
	}
	return &release, nil
}

// CheckForUpdate returns the latest version tag if it is newer than
// currentVersion, otherwise an empty string.
func (u *Updater) CheckForUpdate(ctx context.Context, currentVersion string) (string, error) {
	if currentVersion == "" || currentVersion == "dev" {
		return "", nil
	}
	release, err := u.latestRelease(ctx)
	if err != nil {
		return "", err
	}

	current, err := parseVersion(currentVersion)
	if err != nil {
		return "", fmt.Errorf("failed to parse current version: %w", err)
	}
	latest, err := parseVersion(release.TagName)
	if err != nil {
		return "", fmt.Errorf("failed to parse latest version tag: %w", err)
	}

	if current.lessThan(latest) {
		return release.TagName, nil
	}
	return "", nil
}

// archName maps runtime.GOARCH to the goreleaser archive name format.
func archName(goarch string) string {
	if goarch == "amd64" {
		return "x86_64"
	}
	return goarch
}

// assetName constructs the expected release asset filename.
func assetName(goos, goarch string) string {
	ext := "tar.gz"
	if goos == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("%s_%s_%s.%s", binaryName, goos, archName(goarch), ext)
}

func executableName(goos string) string {
	if goos == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// extractBinary extracts the executable from a downloaded release archive.
func extractBinary(archive []byte, archiveName, exeName string) ([]byte, error) {
	if strings.HasSuffix(archiveName, ".zip") {
		r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zip reader: %w", err)
		}
		for _, f := range r.File {
			if f.FileInfo().IsDir() || filepath.Base(f.Name) != exeName {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open file in zip: %w", err)
			}
			defer func() { _ = rc.Close() }()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil, fmt.Errorf("failed to read executable from zip: %w", err)
			}
			return data, nil
		}
		return nil, fmt.Errorf("executable '%s' not found in archive", exeName)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gzr.Close() }()
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tar reading error: %w", err)
		}
		if header.Typeflag == tar.TypeReg && filepath.Base(header.Name) == exeName {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("failed to read executable from tarball: %w", err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("executable '%s' not found in archive", exeName)
}

// ApplyUpdate performs the self-update to the latest version.
func (u *Updater) ApplyUpdate(ctx context.Context, console *cli.Console, currentVersion string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	if strings.Contains(exe, "go-build") {
		console.Error("Update command cannot be used with `go run`.")
		console.Info("Please build or install the binary first, then run the update on the compiled executable.")
		return nil
	}

	if currentVersion == "" || currentVersion == "dev" {
		console.Warn("Cannot update 'dev' version.")
		return nil
	}
	console.Info("Checking for latest version...")
	release, err := u.latestRelease(ctx)
	if err != nil {
		return err
	}

	current, err := parseVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("failed to parse current version '%s': %w", currentVersion, err)
	}
	latest, err := parseVersion(release.TagName)
	if err != nil {
		return fmt.Errorf("failed to parse latest version tag '%s': %w", release.TagName, err)
	}

	if !current.lessThan(latest) {
		console.Success("You are already using the latest version of posterwall (%s).", currentVersion)
		return nil
	}

	console.Info("Updating from %s to %s...", currentVersion, release.TagName)

	name := assetName(runtime.GOOS, runtime.GOARCH)
	var assetURL string
	for _, asset := range release.Assets {
		if asset.Name == name {
			assetURL = asset.DownloadURL
			break
		}
	}
	if assetURL == "" {
		return fmt.Errorf("could not find update asset '%s' for this platform", name)
	}

	console.Info("Downloading: %s", name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return err
	}
	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download asset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status downloading asset: %s", resp.Status)
	}
	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read archive body: %w", err)
	}

	bin, err := extractBinary(archive, name, executableName(runtime.GOOS))
	if err != nil {
		return fmt.Errorf("failed to extract binary: %w", err)
	}

	console.Info("Applying update...")
	if err := update.Apply(bytes.NewReader(bin), update.Options{}); err != nil {
		return fmt.Errorf("update apply failed: %w", err)
	}

	console.Success("Successfully updated to version %s", release.TagName)
	return nil
}
