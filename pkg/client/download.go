package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/pkg/pool"
	"github.com/perpetuallyhorni/posterwall/pkg/ratelimiter"
	"github.com/perpetuallyhorni/posterwall/pkg/storage"
	"go.uber.org/zap"
)

// defaultRateLimit is used when the configured rate limit cannot be parsed.
const defaultRateLimit = 500 * time.Millisecond

// DownloadStatus is the outcome of one download.
type DownloadStatus string

const (
	// StatusDownloaded means the original was fetched and recorded.
	StatusDownloaded DownloadStatus = "downloaded"
	// StatusAdopted means a file already on disk was hashed and recorded.
	StatusAdopted DownloadStatus = "adopted"
	// StatusSkipped means the file is already in the history.
	StatusSkipped DownloadStatus = "skipped"
	// StatusNoMirror means the poster has no local mirror to download from.
	StatusNoMirror DownloadStatus = "no_mirror"
)

// DownloadResult describes the outcome for one poster.
type DownloadResult struct {
	ID       int            `json:"id"`
	Title    string         `json:"title"`
	Filename string         `json:"filename,omitempty"`
	Path     string         `json:"path,omitempty"`
	SHA256   string         `json:"sha256,omitempty"`
	Status   DownloadStatus `json:"status"`
}

// DownloadOriginal downloads the original of the poster at index id.
func (c *Client) DownloadOriginal(ctx context.Context, id int, force bool) (*DownloadResult, error) {
	results, err := c.DownloadOriginals(ctx, []int{id}, force, nil)
	if len(results) == 0 {
		return nil, err
	}
	return &results[0], err
}

// DownloadCategory downloads the originals of every poster in the named category.
func (c *Client) DownloadCategory(ctx context.Context, name string, force bool, progressCb ProgressCallback) ([]DownloadResult, error) {
	set, err := c.loadPosters(ctx)
	if err != nil {
		return nil, err
	}
	selected := gallery.Select(set.meta.Posters, gallery.InCategory(name), gallery.HasImages)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: category %q", gallery.ErrEmpty, name)
	}
	return c.downloadSelected(ctx, set, selected, force, progressCb)
}

// DownloadOriginals downloads the originals of the posters at the given indexes.
// All indexes are validated before anything is downloaded.
func (c *Client) DownloadOriginals(ctx context.Context, ids []int, force bool, progressCb ProgressCallback) ([]DownloadResult, error) {
	set, err := c.loadPosters(ctx)
	if err != nil {
		return nil, err
	}
	selected := make([]gallery.Indexed, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(set.meta.Posters) {
			return nil, fmt.Errorf("%w: %s %d, %d posters", gallery.ErrOutOfRange, gallery.ParamID, id, len(set.meta.Posters))
		}
		selected = append(selected, gallery.Indexed{ID: id, Poster: set.meta.Posters[id]})
	}
	return c.downloadSelected(ctx, set, selected, force, progressCb)
}

// downloadSelected runs one download task per poster on the worker pool.
// Results are returned in input order; a disk space error stops the batch.
func (c *Client) downloadSelected(ctx context.Context, set *posterSet, selected []gallery.Indexed, force bool, progressCb ProgressCallback) ([]DownloadResult, error) {
	if progressCb == nil {
		progressCb = noOpProgress
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limiter := ratelimiter.New(c.rateLimit())
	defer limiter.Stop()

	var (
		mu   sync.Mutex
		done int
	)
	total := len(selected)
	results := make([]DownloadResult, total)
	p := pool.New(c.cfg.MaxWorkers, total)
	for i, item := range selected {
		p.Submit(func() error {
			res, err := c.downloadOne(ctx, limiter, set, item, force)
			results[i] = res
			mu.Lock()
			done++
			progressCb(done, total, fmt.Sprintf("%s: %s", item.Poster.Title, res.Status))
			mu.Unlock()
			if err != nil {
				if errors.Is(err, gallery.ErrDiskSpace) {
					cancel()
				}
				return fmt.Errorf("poster %d: %w", item.ID, err)
			}
			return nil
		})
	}
	return results, p.Stop()
}

func (c *Client) downloadOne(ctx context.Context, limiter *ratelimiter.RateLimiter, set *posterSet, item gallery.Indexed, force bool) (DownloadResult, error) {
	res := DownloadResult{ID: item.ID, Title: item.Poster.Title}
	urls := c.urls.Resolve(set.index, item.Poster.FirstImage())
	name, ok := gallery.LocalName(urls.Filename)
	if !urls.Local() || !ok {
		res.Status = StatusNoMirror
		c.logger.Info("No local mirror, skipping", zap.Int("id", item.ID),
			zap.String("title", item.Poster.Title), zap.String("filename", urls.Filename))
		return res, nil
	}
	res.Filename = urls.Filename
	target := filepath.Join(c.cfg.DownloadPath, name)

	if !force {
		if rec, err := c.db.GetDownload(urls.Filename); err != nil {
			return res, err
		} else if rec != nil && fileExists(rec.Path) {
			res.Path, res.SHA256, res.Status = rec.Path, rec.SHA256, StatusSkipped
			c.logger.Debug("Already downloaded", zap.String("file", rec.Path))
			return res, nil
		}
		if fileExists(target) {
			return c.adoptLocalFile(res, urls, target)
		}
	}

	if err := limiter.Wait(ctx); err != nil {
		return res, err
	}
	opt := c.downloadOpt
	opt.Directory = c.cfg.DownloadPath
	opt.Retries = c.cfg.Retries
	c.logger.Info("Downloading original", zap.Int("id", item.ID), zap.String("url", urls.Raw))
	file, sum, err := gallery.DownloadOriginal(ctx, urls, opt)
	if err != nil {
		c.logger.Error("Download failed", zap.Int("id", item.ID), zap.Error(err))
		return res, err
	}
	res.Path, res.SHA256, res.Status = file, sum, StatusDownloaded
	return res, c.record(res, urls)
}

// adoptLocalFile records a file that is on disk but missing from the history.
func (c *Client) adoptLocalFile(res DownloadResult, urls gallery.ImageURLs, path string) (DownloadResult, error) {
	sum, err := gallery.FileSHA256(path)
	if err != nil {
		return res, err
	}
	c.logger.Info("Adopting existing file", zap.String("file", path))
	res.Path, res.SHA256, res.Status = path, sum, StatusAdopted
	return res, c.record(res, urls)
}

func (c *Client) record(res DownloadResult, urls gallery.ImageURLs) error {
	return c.db.AddDownload(storage.DownloadRecord{
		Filename:     urls.Filename,
		PosterID:     res.ID,
		Title:        res.Title,
		SourceURL:    urls.Raw,
		SHA256:       res.SHA256,
		Path:         res.Path,
		DownloadedAt: time.Now(),
	})
}

// History returns the download history, most recent first.
func (c *Client) History() ([]storage.DownloadRecord, error) {
	return c.db.ListDownloads()
}

func (c *Client) rateLimit() time.Duration {
	if c.cfg.RateLimit == "" {
		return 0
	}
	d, err := time.ParseDuration(c.cfg.RateLimit)
	if err != nil || d < 0 {
		c.logger.Warn("Invalid rate_limit, using default",
			zap.String("rate_limit", c.cfg.RateLimit), zap.Duration("default", defaultRateLimit))
		return defaultRateLimit
	}
	return d
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
