package gallery

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/perpetuallyhorni/posterwall/internal/fs"
)

// MinRequiredDiskSpace is the free space a download needs when its size is unknown.
const MinRequiredDiskSpace uint64 = 64 << 20

var (
	// DefaultDownloadClient is the grab client used for downloading originals.
	DefaultDownloadClient = &grab.Client{
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
			Timeout: 5 * time.Minute,
		},
		UserAgent: "posterwall",
	}
	// DefaultTimeoutOnError is the pause between download attempts.
	DefaultTimeoutOnError = 5 * time.Second
)

// DownloadOpt holds the options for downloading an original.
type DownloadOpt struct {
	Directory      string                                                // Directory to save files to.
	DownloadWith   func(ctx context.Context, url, filename string) error // Downloads url into a new file at filename.
	SpaceWith      func(dir string) (uint64, error)                      // Reports free bytes in dir.
	TimeoutOnError time.Duration                                         // Pause between attempts.
	Retries        int                                                   // Extra attempts after the first.
}

// Defaults fills unset options.
func (opt *DownloadOpt) Defaults() *DownloadOpt {
	ret := opt
	if ret == nil {
		ret = &DownloadOpt{}
	}
	if ret.DownloadWith == nil {
		ret.DownloadWith = grabDownload
	}
	if ret.SpaceWith == nil {
		ret.SpaceWith = fs.Available
	}
	if ret.TimeoutOnError == 0 {
		ret.TimeoutOnError = DefaultTimeoutOnError
	}
	if ret.Retries < 0 {
		ret.Retries = 0
	}
	return ret
}

// grabDownload fetches url into filename. Resuming is disabled: filename is
// always a fresh temporary path, never a partial earlier download.
func grabDownload(ctx context.Context, url, filename string) error {
	req, err := grab.NewRequest(filename, url)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.NoResume = true
	if resp := DefaultDownloadClient.Do(req); resp.Err() != nil {
		return resp.Err()
	}
	return nil
}

// LocalName returns the base name a mirrored file is saved under. Names that
// would resolve to a directory ("", ".", "..") are rejected.
func LocalName(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}
	base := filepath.Base(filepath.FromSlash(filename))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", false
	}
	return base, true
}

// sleepCtx pauses for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FileSHA256 calculates the SHA256 hash of a file.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CheckDiskSpace fails with ErrDiskSpace when dir has less than need bytes free.
func CheckDiskSpace(dir string, need uint64, space func(string) (uint64, error)) error {
	if need == 0 {
		need = MinRequiredDiskSpace
	}
	available, err := space(dir)
	if err != nil {
		return fmt.Errorf("could not check disk space for %s: %w", dir, err)
	}
	if available < need {
		return fmt.Errorf("%w: %d bytes available in %s, requires at least %d bytes", ErrDiskSpace, available, dir, need)
	}
	return nil
}

// DownloadOriginal downloads the mirrored original of urls into the option
// directory and returns the saved path and its SHA256.
//
// The file is downloaded to a temporary path and renamed over the target
// once complete, so an existing file at the target is replaced, never
// resumed or appended to.
func DownloadOriginal(ctx context.Context, urls ImageURLs, opts ...DownloadOpt) (file string, sum string, err error) {
	name, ok := LocalName(urls.Filename)
	if !ok || urls.Raw == "" {
		return "", "", ErrNoMirror
	}
	opt := &DownloadOpt{}
	if len(opts) != 0 {
		opt = &opts[0]
	}
	opt = opt.Defaults()
	// #nosec G301
	if err := os.MkdirAll(opt.Directory, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create download directory %s: %w", opt.Directory, err)
	}
	if err := CheckDiskSpace(opt.Directory, 0, opt.SpaceWith); err != nil {
		return "", "", err
	}

	filename := filepath.Join(opt.Directory, name)
	tempPath := filepath.Join(opt.Directory, fmt.Sprintf(".%s.%d.part", name, time.Now().UnixNano()))
	defer func() { _ = os.Remove(tempPath) }()

	var lastErr error
	for try := 0; try <= opt.Retries; try++ {
		if try > 0 {
			if err := sleepCtx(ctx, opt.TimeoutOnError); err != nil {
				return "", "", fmt.Errorf("download %s: %w", urls.Raw, err)
			}
		}
		_ = os.Remove(tempPath)
		if lastErr = opt.DownloadWith(ctx, urls.Raw, tempPath); lastErr == nil {
			break
		}
		if ctx.Err() != nil {
			return "", "", fmt.Errorf("download %s: %w", urls.Raw, ctx.Err())
		}
	}
	if lastErr != nil {
		return "", "", fmt.Errorf("download %s failed after %d attempt(s): %w", urls.Raw, opt.Retries+1, lastErr)
	}

	hash, err := FileSHA256(tempPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, filename); err != nil {
		return "", "", fmt.Errorf("failed to move download to %s: %w", filename, err)
	}
	return filename, hash, nil
}
