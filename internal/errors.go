package gallery

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch is returned when a document could not be retrieved or decoded.
	ErrFetch = errors.New("fetch failed")
	// ErrInvalidParam is returned when a navigation parameter is missing or malformed.
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrOutOfRange is returned when a poster index does not exist.
	ErrOutOfRange = errors.New("index out of range")
	// ErrEmpty is returned when a page has nothing to show.
	ErrEmpty = errors.New("empty result")
	// ErrNoMirror is returned when a poster image has no local mirror to download.
	ErrNoMirror = errors.New("no local mirror")
	// ErrDiskSpace is returned when there is not enough free space for a download.
	ErrDiskSpace = errors.New("insufficient disk space")
)

// FetchError describes a failed document request.
type FetchError struct {
	Path       string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

// Unwrap makes every FetchError match ErrFetch.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// PageErrorKind classifies a terminal page error.
type PageErrorKind int

const (
	// FetchFailed means one of the page documents could not be loaded.
	FetchFailed PageErrorKind = iota
	// InvalidParam means the page was requested with a bad navigation parameter.
	InvalidParam
	// EmptyResult means the page loaded but has nothing to show.
	EmptyResult
)

// String returns the kind name.
func (k PageErrorKind) String() string {
	switch k {
	case FetchFailed:
		return "fetch_failed"
	case InvalidParam:
		return "invalid_param"
	case EmptyResult:
		return "empty_result"
	default:
		return fmt.Sprintf("PageErrorKind(%d)", int(k))
	}
}

// PageError is the user-visible outcome of a page that could not be rendered.
type PageError struct {
	Kind    PageErrorKind
	Message string // user-facing, already localised
	Err     error
}

func (e *PageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PageError) Unwrap() error { return e.Err }

// AsPageError extracts a *PageError from err.
func AsPageError(err error) (*PageError, bool) {
	var pe *PageError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
