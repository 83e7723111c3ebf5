package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gallery "github.com/perpetuallyhorni/posterwall/internal"
	"go.uber.org/zap"
)

// Page is a rendered page. Exactly one of List, Category or Detail is set,
// matching Kind.
type Page struct {
	Kind     gallery.PageKind `json:"kind"`
	List     *ListPage        `json:"list,omitempty"`
	Category *CategoryPage    `json:"category,omitempty"`
	Detail   *DetailPage      `json:"detail,omitempty"`
}

// CategoryEntry is one row of the category list.
type CategoryEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Link  string `json:"link"`
}

// ListPage is the category list.
type ListPage struct {
	Categories []CategoryEntry `json:"categories"`
}

// GalleryEntry is one thumbnail of a category gallery.
type GalleryEntry struct {
	ID    int               `json:"id"`
	Title string            `json:"title"`
	Year  string            `json:"year,omitempty"`
	Thumb gallery.ImageURLs `json:"thumb"`
	Link  string            `json:"link"`
}

// CategoryPage is the gallery of one category.
type CategoryPage struct {
	Name    string         `json:"name"`
	Entries []GalleryEntry `json:"entries"`
}

// Action is a labelled link offered on the detail page.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// DetailPage is the detail view of one poster.
type DetailPage struct {
	ID          int                 `json:"id"`
	Title       string              `json:"title"`
	Category    string              `json:"category"`
	Year        string              `json:"year,omitempty"`
	Description string              `json:"description,omitempty"`
	Primary     gallery.ImageURLs   `json:"primary"`
	Images      []gallery.ImageURLs `json:"images"`
	Weibo       *Action             `json:"weibo,omitempty"`
	Download    *Action             `json:"download,omitempty"`
	Back        string              `json:"back"`
}

// ListPage renders the category list.
func (c *Client) ListPage(ctx context.Context) (*ListPage, error) {
	doc, err := c.fetcher.Categories(ctx)
	if err != nil {
		return nil, c.fetchFailed(gallery.PageList, err)
	}
	if len(doc.Categories) == 0 {
		return nil, c.empty(c.msgs.NoCategories)
	}
	page := &ListPage{Categories: make([]CategoryEntry, 0, len(doc.Categories))}
	for _, cat := range doc.Categories {
		page.Categories = append(page.Categories, CategoryEntry{
			Name:  cat.Name,
			Count: cat.Count,
			Link:  gallery.CategoryRequest(cat.Name).Link(),
		})
	}
	return page, nil
}

// CategoryPage renders the gallery of the named category.
func (c *Client) CategoryPage(ctx context.Context, name string) (*CategoryPage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, c.invalid(c.msgs.MissingCategory, fmt.Errorf("%w: missing %s", gallery.ErrInvalidParam, gallery.ParamCategory))
	}
	set, err := c.loadPosters(ctx)
	if err != nil {
		return nil, c.fetchFailed(gallery.PageCategory, err)
	}

	selected := gallery.Select(set.meta.Posters, gallery.InCategory(name))
	if len(selected) == 0 {
		c.logger.Debug("Category has no posters", zap.String("category", name))
		return nil, c.empty(c.msgs.EmptyCategory)
	}
	page := &CategoryPage{Name: gallery.NormalizeCategory(name), Entries: make([]GalleryEntry, 0, len(selected))}
	for _, item := range selected {
		page.Entries = append(page.Entries, GalleryEntry{
			ID:    item.ID,
			Title: item.Poster.Title,
			Year:  item.Poster.Year,
			Thumb: c.urls.Resolve(set.index, item.Poster.FirstImage()),
			Link:  gallery.DetailRequest(item.ID).Link(),
		})
	}
	return page, nil
}

// DetailPage renders the detail view of the poster at index rawID.
func (c *Client) DetailPage(ctx context.Context, rawID string) (*DetailPage, error) {
	id, err := gallery.ParseID(rawID)
	if errors.Is(err, gallery.ErrOutOfRange) {
		return nil, c.invalid(c.msgs.OutOfRange, err)
	}
	if err != nil {
		return nil, c.invalid(c.msgs.InvalidID, err)
	}
	set, err := c.loadPosters(ctx)
	if err != nil {
		return nil, c.fetchFailed(gallery.PageDetail, err)
	}
	if id >= len(set.meta.Posters) {
		return nil, c.invalid(c.msgs.OutOfRange,
			fmt.Errorf("%w: %s %d, %d posters", gallery.ErrOutOfRange, gallery.ParamID, id, len(set.meta.Posters)))
	}
	return c.buildDetail(set, id), nil
}

func (c *Client) buildDetail(set *posterSet, id int) *DetailPage {
	post := set.meta.Posters[id]
	page := &DetailPage{
		ID:          id,
		Title:       post.Title,
		Category:    post.CategoryName(),
		Year:        post.Year,
		Description: post.Description,
		Primary:     c.urls.Resolve(set.index, post.FirstImage()),
		Images:      make([]gallery.ImageURLs, 0, len(post.Images)),
		Back:        gallery.CategoryRequest(post.CategoryName()).Link(),
	}
	for _, img := range post.Images {
		page.Images = append(page.Images, c.urls.Resolve(set.index, img))
	}
	if post.WeiboURL != "" {
		page.Weibo = &Action{Label: c.msgs.ViewOnWeibo, URL: post.WeiboURL}
	}
	if page.Primary.Raw != "" {
		page.Download = &Action{Label: c.msgs.DownloadRaw, URL: page.Primary.Raw}
	}
	return page
}
