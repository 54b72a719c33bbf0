package service

import "github.com/jiralite/tracker/internal/core/ports"

const (
	defaultPageSize        = 20
	defaultCommentPageSize = 10
	maxPageSize            = 100
	// maxPage keeps (page-1)*limit far from integer overflow.
	maxPage = 1_000_000
)

// normalizePage applies defaults and the page number and size caps.
func normalizePage(page, limit, def int) ports.PageRequest {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return ports.PageRequest{Page: page, Limit: limit}
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
