package gallery

import "strings"

// FallbackCategory is the category a poster belongs to when its own category is blank.
const FallbackCategory = "Uncategorized"

// Document paths, relative to the site URL.
const (
	CategoryDocumentPath = "cache/category_cache.json"
	MetaDocumentPath     = "cache/meta_cache.json"
	ImageCachePath       = "cache/image_cache.json"
)

// Category is one entry of the category summary.
type Category struct {
	// Name is the category name as it appears on posters.
	Name string `json:"name"`
	// Count is the precomputed number of posters in the category.
	Count int `json:"count"`
}

// CategoryDocument is the content of cache/category_cache.json.
type CategoryDocument struct {
	Source          string     `json:"source,omitempty"`
	TotalItems      int        `json:"total_items,omitempty"`
	TotalCategories int        `json:"total_categories,omitempty"`
	Categories      []Category `json:"categories"`
}

// Poster is one archived item.
//
// A poster has no identifier of its own. Its index in MetaDocument.Posters is
// used for linking, so links are only valid as long as the document order is.
type Poster struct {
	// Category is the section the poster was listed under. May be empty.
	Category string `json:"category"`
	// Title is the poster's name.
	Title string `json:"title"`
	// Description is the plain-text caption.
	Description string `json:"description"`
	// Year is the sub-section the poster was listed under. May be empty.
	Year string `json:"year"`
	// Images are the external image URLs, in display order.
	Images []string `json:"images"`
	// WeiboURL is the original announcement post. May be empty.
	WeiboURL string `json:"weibo_url"`
}

// CategoryName returns the normalised category of the poster.
func (p Poster) CategoryName() string {
	return NormalizeCategory(p.Category)
}

// FirstImage returns the first external image URL, or "" if the poster has none.
func (p Poster) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// NormalizeCategory trims a category name and maps blank names to FallbackCategory.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return FallbackCategory
	}
	return name
}

// MetaDocument is the content of cache/meta_cache.json.
type MetaDocument struct {
	Source  string   `json:"source,omitempty"`
	Count   int      `json:"count,omitempty"`
	Posters []Poster `json:"posters"`
}

// ImageCache maps a locally mirrored filename to the external URL it was downloaded from.
type ImageCache map[string]string
