package gallery

import (
	"net/url"
	"strings"
)

// ImageURLs are the two links shown for a poster image.
type ImageURLs struct {
	// Filename is the mirrored filename, empty when the image is not mirrored.
	Filename string `json:"filename,omitempty"`
	// Display is the URL to show the image from.
	Display string `json:"display"`
	// Raw is the URL to download the original from, empty when not mirrored.
	Raw string `json:"raw,omitempty"`
}

// Local reports whether the image is served from the mirror.
func (u ImageURLs) Local() bool { return u.Filename != "" }

// URLBuilder turns mirrored filenames into absolute links.
type URLBuilder struct {
	displayBase string
	rawBase     string
}

// NewURLBuilder creates a builder. Display links are siteURL+imagePath+filename,
// raw links are rawURL+filename.
func NewURLBuilder(siteURL, imagePath, rawURL string) URLBuilder {
	return URLBuilder{
		displayBase: joinBase(siteURL, imagePath),
		rawBase:     rawURL,
	}
}

// Build returns the links for a resolved filename. When filename is empty
// the display link falls back to the external URL and no raw link is given.
func (b URLBuilder) Build(filename, external string) ImageURLs {
	if filename == "" {
		return ImageURLs{Display: external}
	}
	encoded := EncodeFilename(filename)
	return ImageURLs{
		Filename: filename,
		Display:  b.displayBase + encoded,
		Raw:      b.rawBase + encoded,
	}
}

// Resolve looks up external in idx and builds its links.
func (b URLBuilder) Resolve(idx *Index, external string) ImageURLs {
	name, _ := idx.Lookup(external)
	return b.Build(name, external)
}

// EncodeFilename percent-encodes a filename for use as a single path segment.
func EncodeFilename(name string) string {
	return url.PathEscape(name)
}

// joinBase appends path to base with exactly one slash between them.
func joinBase(base, path string) string {
	if path == "" {
		return base
	}
	if base == "" {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
