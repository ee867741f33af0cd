package models

import "gorm.io/gorm"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationMeta describes where a Page sits in the full result set.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPage wraps data with metadata computed from totalItems. A limit below
// one is treated as one.
func NewPage[T any](data []T, totalItems int64, page, limit int) Page[T] {
	limit = max(limit, 1)
	pages := int(totalItems) / limit
	if int(totalItems)%limit != 0 {
		pages++
	}

	meta := PaginationMeta{TotalItems: totalItems, TotalPages: pages, CurrentPage: page, PageSize: limit}
	return Page[T]{Data: data, Meta: meta}
}

// normalizePage clamps page to at least 1 and limit to [1, MaxPageSize],
// using DefaultPageSize when limit is unset.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// paginate counts the rows matched by query and fetches one page of them.
func paginate[T any](query *gorm.DB, page, limit int) (Page[T], error) {
	page, limit = normalizePage(page, limit)
	query = query.Session(&gorm.Session{})

	var totalItems int64
	if err := query.Model(new(T)).Count(&totalItems).Error; err != nil {
		return Page[T]{}, translate(err)
	}

	var results []T
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return Page[T]{}, translate(err)
	}

	return NewPage(results, totalItems, page, limit), nil
}
