package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds a single document request.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves the archive documents relative to a site URL.
type Fetcher struct {
	base   *url.URL
	client *http.Client
}

// NewFetcher creates a Fetcher for the site rooted at siteURL.
// A nil client uses an http.Client with DefaultFetchTimeout.
func NewFetcher(siteURL string, client *http.Client) (*Fetcher, error) {
	siteURL = strings.TrimSpace(siteURL)
	if siteURL == "" {
		return nil, fmt.Errorf("site URL cannot be empty")
	}
	// Resolve documents against the directory, not the last path element.
	if !strings.HasSuffix(siteURL, "/") {
		siteURL += "/"
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", siteURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid site URL %q: scheme must be http or https", siteURL)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Fetcher{base: base, client: client}, nil
}

// URL returns the absolute URL of a document path.
func (f *Fetcher) URL(path string) string {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return f.base.String() + path
	}
	return f.base.ResolveReference(ref).String()
}

// Raw fetches the document at path and returns its body.
// Any non-2xx status is a failure.
func (f *Fetcher) Raw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(path), nil)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Path: path, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	return body, nil
}

// FetchJSON fetches the document at path and decodes it into T.
func FetchJSON[T any](ctx context.Context, f *Fetcher, path string) (*T, error) {
	body, err := f.Raw(ctx, path)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return &doc, nil
}

// Categories fetches the category summary.
func (f *Fetcher) Categories(ctx context.Context) (*CategoryDocument, error) {
	return FetchJSON[CategoryDocument](ctx, f, CategoryDocumentPath)
}

// Meta fetches the poster metadata.
func (f *Fetcher) Meta(ctx context.Context) (*MetaDocument, error) {
	return FetchJSON[MetaDocument](ctx, f, MetaDocumentPath)
}

// Images fetches the image cache mapping.
func (f *Fetcher) Images(ctx context.Context) (ImageCache, error) {
	doc, err := FetchJSON[ImageCache](ctx, f, ImageCachePath)
	if err != nil {
		return nil, err
	}
	if *doc == nil {
		return ImageCache{}, nil
	}
	return *doc, nil
}
