package gallery

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// PageKind selects one of the three page renderers.
type PageKind int

const (
	// PageList is the category list.
	PageList PageKind = iota
	// PageCategory is the gallery of one category.
	PageCategory
	// PageDetail is the detail view of one poster.
	PageDetail
)

// Page file names used in shareable links.
const (
	listPageFile     = "index.html"
	categoryPageFile = "category.html"
	detailPageFile   = "detail.html"
)

// Navigation query parameters.
const (
	ParamCategory = "category"
	ParamID       = "id"
)

// String returns the page kind name.
func (k PageKind) String() string {
	switch k {
	case PageList:
		return "list"
	case PageCategory:
		return "category"
	case PageDetail:
		return "detail"
	default:
		return fmt.Sprintf("PageKind(%d)", int(k))
	}
}

// MarshalText encodes the kind as its name.
func (k PageKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParsePageKind parses a page kind name.
func ParsePageKind(s string) (PageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list", "index", "":
		return PageList, nil
	case "category":
		return PageCategory, nil
	case "detail":
		return PageDetail, nil
	default:
		return 0, fmt.Errorf("unknown page kind %q", s)
	}
}

// Request is a page kind together with its navigation parameters.
// Parameters are kept raw; validation belongs to the renderer.
type Request struct {
	Kind     PageKind
	Category string
	ID       string
}

// ListRequest returns a request for the category list.
func ListRequest() Request { return Request{Kind: PageList} }

// CategoryRequest returns a request for the gallery of a category.
func CategoryRequest(name string) Request { return Request{Kind: PageCategory, Category: name} }

// DetailRequest returns a request for the detail view of poster id.
func DetailRequest(id int) Request { return Request{Kind: PageDetail, ID: strconv.Itoa(id)} }

// Link returns the relative shareable link of the request.
func (r Request) Link() string {
	switch r.Kind {
	case PageCategory:
		return categoryPageFile + "?" + url.Values{ParamCategory: {r.Category}}.Encode()
	case PageDetail:
		return detailPageFile + "?" + url.Values{ParamID: {r.ID}}.Encode()
	default:
		return listPageFile
	}
}

// ParseLink parses a shareable link, absolute or relative, into a Request.
// The page is chosen by the file name of the path; an empty path or a
// directory is the list page.
func ParseLink(raw string) (Request, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Request{}, fmt.Errorf("invalid link %q: %w", raw, err)
	}
	q := u.Query()
	file := path.Base(u.Path)
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		file = listPageFile
	}
	switch strings.ToLower(file) {
	case listPageFile, "index", ".", "/":
		return ListRequest(), nil
	case categoryPageFile, "category":
		return Request{Kind: PageCategory, Category: q.Get(ParamCategory)}, nil
	case detailPageFile, "detail":
		return Request{Kind: PageDetail, ID: q.Get(ParamID)}, nil
	default:
		return Request{}, fmt.Errorf("invalid link %q: unknown page %q", raw, file)
	}
}

// ParseID validates a raw poster index: a non-negative decimal integer.
func ParseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidParam, ParamID)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %s %q is not a non-negative integer", ErrInvalidParam, ParamID, raw)
		}
	}
	id, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// No document can hold that many posters.
		return 0, fmt.Errorf("%w: %w: %s %s", ErrInvalidParam, ErrOutOfRange, ParamID, raw)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidParam, ParamID, raw, err)
	}
	return id, nil
}
