package client

import (
	"context"
	"fmt"
	"net/http"

	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"github.com/perpetuallyhorni/posterwall/pkg/config"
	"github.com/perpetuallyhorni/posterwall/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Client is the main entry point for browsing and downloading from the archive.
type Client struct {
	cfg         *config.Config
	db          storage.Storer
	logger      *zap.Logger
	fetcher     *gallery.Fetcher
	urls        gallery.URLBuilder
	msgs        gallery.Messages
	httpClient  *http.Client
	downloadOpt gallery.DownloadOpt
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used to fetch documents.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDownloadOpt sets the base download options. Directory and Retries
// are always taken from the configuration.
func WithDownloadOpt(opt gallery.DownloadOpt) Option {
	return func(c *Client) { c.downloadOpt = opt }
}

// New creates a new Client.
func New(cfg *config.Config, db storage.Storer, logger *zap.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if err := cfg.Site.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, db: db, logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	fetcher, err := gallery.NewFetcher(cfg.Site.SiteURL, c.httpClient)
	if err != nil {
		return nil, err
	}
	c.fetcher = fetcher
	c.urls = gallery.NewURLBuilder(cfg.Site.SiteURL, cfg.Site.ImagePath, cfg.Site.RawURL)
	c.msgs = gallery.MessagesFor(cfg.Language)
	return c, nil
}

// ProgressCallback defines the function signature for progress reporting.
type ProgressCallback func(current, total int, message string)

func noOpProgress(current, total int, message string) {}

// Messages returns the page messages in the configured language.
func (c *Client) Messages() gallery.Messages { return c.msgs }

// Render dispatches a page request to its renderer.
func (c *Client) Render(ctx context.Context, req gallery.Request) (*Page, error) {
	switch req.Kind {
	case gallery.PageList:
		list, err := c.ListPage(ctx)
		if err != nil {
			return nil, err
		}
		return &Page{Kind: req.Kind, List: list}, nil
	case gallery.PageCategory:
		cat, err := c.CategoryPage(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		return &Page{Kind: req.Kind, Category: cat}, nil
	case gallery.PageDetail:
		detail, err := c.DetailPage(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return &Page{Kind: req.Kind, Detail: detail}, nil
	default:
		return nil, fmt.Errorf("unknown page kind %v", req.Kind)
	}
}

// posterSet is the joined poster metadata and image cache of one page load.
type posterSet struct {
	meta  *gallery.MetaDocument
	index *gallery.Index
}

// loadPosters fetches the poster metadata and the image cache concurrently
// and returns once both are available.
func (c *Client) loadPosters(ctx context.Context) (*posterSet, error) {
	var (
		meta   *gallery.MetaDocument
		images gallery.ImageCache
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = c.fetcher.Meta(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = c.fetcher.Images(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.logger.Debug("Loaded posters",
		zap.Int("posters", len(meta.Posters)),
		zap.Int("mirrored", len(images)))
	return &posterSet{meta: meta, index: gallery.NewIndex(images)}, nil
}

// fetchFailed logs the cause of a failed page load and returns the page error.
func (c *Client) fetchFailed(page gallery.PageKind, err error) error {
	c.logger.Error("Page load failed", zap.Stringer("page", page), zap.Error(err))
	return &gallery.PageError{Kind: gallery.FetchFailed, Message: c.msgs.FetchFailed, Err: err}
}

func (c *Client) invalid(msg string, err error) error {
	return &gallery.PageError{Kind: gallery.InvalidParam, Message: msg, Err: err}
}

func (c *Client) empty(msg string) error {
	return &gallery.PageError{Kind: gallery.EmptyResult, Message: msg, Err: gallery.ErrEmpty}
}
