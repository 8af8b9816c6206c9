package listview

import (
	"errors"
	"fmt"
)

// Page cursor limits and defaults.
const (
	DefaultPageSize = 10
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 1000
)

// Common controller errors.
var (
	ErrInvalidPageSize  = fmt.Errorf("page size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrUnknownCategory  = errors.New("unknown category filter")
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrEmptySortKey     = errors.New("sort key cannot be empty")
	ErrInvalidDirection = errors.New("sort direction must be 'asc' or 'desc'")
	ErrSuperseded       = errors.New("page response superseded by a newer request")
	ErrNilFetcher       = errors.New("page fetcher cannot be nil")
)

// PageRequest identifies one page of a resource. Both fields are always >= 1.
type PageRequest struct {
	PageNumber int `json:"page"`
	PageSize   int `json:"page_size"`
}

// Skip returns the number of records preceding the page (the API's skip parameter).
func (r PageRequest) Skip() int {
	return (r.PageNumber - 1) * r.PageSize
}

// Limit returns the API's limit parameter.
func (r PageRequest) Limit() int {
	return r.PageSize
}

// Cursor tracks the current page number and page size.
type Cursor struct {
	page int
	size int
}

// NewCursor returns a cursor on page 1. Out-of-range sizes fall back to DefaultPageSize.
func NewCursor(pageSize int) Cursor {
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return Cursor{page: MinPage, size: pageSize}
}

// Page returns the current 1-based page number.
func (c Cursor) Page() int {
	return c.page
}

// PageSize returns the current page size.
func (c Cursor) PageSize() int {
	return c.size
}

// Request returns the page request for the cursor position.
func (c Cursor) Request() PageRequest {
	return PageRequest{PageNumber: c.page, PageSize: c.size}
}

// GoToPage moves to page n, clamping values below 1 to 1.
// It reports whether the page changed.
func (c *Cursor) GoToPage(n int) bool {
	if n < MinPage {
		n = MinPage
	}
	if n == c.page {
		return false
	}
	c.page = n
	return true
}

// Next advances one page. Callers gate it on hasMore; the cursor does not.
func (c *Cursor) Next() bool {
	return c.GoToPage(c.page + 1)
}

// Previous goes back one page. On page 1 it is a no-op and returns false.
func (c *Cursor) Previous() bool {
	return c.GoToPage(c.page - 1)
}

// SetPageSize changes the page size and returns to page 1, since page offsets
// are meaningless across sizes. It reports whether anything changed.
func (c *Cursor) SetPageSize(n int) (bool, error) {
	if n < MinPageSize || n > MaxPageSize {
		return false, fmt.Errorf("%w: got %d", ErrInvalidPageSize, n)
	}
	if n == c.size {
		return false, nil
	}
	c.size = n
	c.page = MinPage
	return true, nil
}
