package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage bounds the page number so (page-1)*size cannot overflow.
	MaxPage = 1_000_000
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}
	return page
}

func Calculate(page, size int) (offset, limit int) {
	page = clampPage(page)
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return (page - 1) * size, size
}

// Meta is the pagination block returned next to list data.
func Meta(page, offset, limit int, total int64) map[string]any {
	page = clampPage(page)
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
