package models

import "math"

const (
	MaxPageSize = 100
	MaxPage     = math.MaxInt32
)

// PageRequest is a 1-based page window. A zero Size means "everything".
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest applies defaults to raw query values: a page below 1
// becomes 1, a size below 1 becomes def, and page and size are capped at
// MaxPage and MaxPageSize.
func NewPageRequest(page, size, def int) PageRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = def
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// Skip saturates at math.MaxInt64 instead of wrapping.
func (p PageRequest) Skip() int64 {
	if p.Size <= 0 || p.Page <= 1 {
		return 0
	}
	prev, size := int64(p.Page-1), int64(p.Size)
	if prev > math.MaxInt64/size {
		return math.MaxInt64
	}
	return prev * size
}

type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	Pages       int64 `json:"pages"`
	CurrentPage int   `json:"current_page"`
}

// NewPage builds the list envelope; Pages is ceil(total/size).
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{Items: items, Total: total, CurrentPage: req.Page}
	if req.Size > 0 {
		page.Pages = (total + int64(req.Size) - 1) / int64(req.Size)
	} else if total > 0 {
		page.Pages = 1
	}
	return page
}
