package helpers

import (
	"net/http"
	"strconv"

	"parishevents/internal/domain"
)

// Pagination query parameter defaults and limits. The registrant tables in
// the operator UI page through thousands of rows during a large event, so
// the cap stays generous.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// queryInt reads an integer query parameter, falling back to def when the
// value is missing, malformed, or below min.
func queryInt(r *http.Request, key string, def, min int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < min {
		return def
	}
	return v
}

// ParsePagination reads page and page_size from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
func ParsePagination(r *http.Request) domain.PaginationParams {
	p := domain.PaginationParams{
		Page:     queryInt(r, "page", DefaultPage, 1),
		PageSize: queryInt(r, "page_size", DefaultPageSize, 1),
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size,
// and total count. TotalPages is ceiling(total / pageSize).
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
