// Package pagination holds the shared page/limit contract returned by every
// paginated query: {items, totalItems, totalPages, currentPage, pageSize}.
package pagination

import "strconv"

// MaxLimit caps caller-supplied page sizes.
const MaxLimit = 100

// Params is a parsed page/limit pair.
type Params struct {
	Page  int
	Limit int
}

// Parse interprets raw page/limit query values. Missing or malformed values
// fall back to page 1 and the view's default limit; limits are clamped to
// MaxLimit.
func Parse(page, limit string, defaultLimit int) Params {
	p := Params{Page: 1, Limit: defaultLimit}

	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n >= 1 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

// Offset returns the number of rows preceding the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the uniform paginated result envelope.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// NewPage assembles the envelope for one page of items out of totalItems.
func NewPage[T any](items []T, totalItems int, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + params.Limit - 1) / params.Limit
	}

	return Page[T]{
		Items:       items,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: params.Page,
		PageSize:    params.Limit,
	}
}
