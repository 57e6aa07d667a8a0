package helpers

import (
	"net/http"
	"strconv"

	"eventhub/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing or invalid
// values fall back to the defaults and page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveInt(q.Get("page"), DefaultPage),
		PageSize: min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

func positiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// PaginationMeta describes the page returned in a list response.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds the metadata for one page out of total rows.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	return PaginationMeta{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: params.TotalPages(total),
	}
}

// Page is the data of a paginated list response.
type Page[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewPage wraps items with their pagination metadata. A nil slice is encoded as [].
func NewPage[T any](items []T, params domain.PaginationParams, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: NewPaginationMeta(params, total)}
}
