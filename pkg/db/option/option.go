// Package option provides composable query options for gorm-backed stores.
package option

import (
	"strings"

	"github.com/smallbiznis/returnly/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm query before execution.
type Option func(*gorm.DB) *gorm.DB

// QuerySortBy restricts sorting to an allow-listed set of columns.
type QuerySortBy struct {
	Field string
	Desc  bool
	Allow map[string]bool
}

const defaultPageSize = 50

// ApplyPagination applies a cursor filter and fetches one extra row so callers
// can detect whether more pages exist.
func ApplyPagination(p pagination.Pagination) Option {
	return func(q *gorm.DB) *gorm.DB {
		size := p.PageSize
		if size <= 0 {
			size = defaultPageSize
		}
		if cursor, err := pagination.DecodeCursor(p.PageToken); err == nil {
			q = q.Where(
				"created_at < ? OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
		return q.Limit(size + 1)
	}
}

// WithSortBy orders results by an allow-listed column, newest first by default.
func WithSortBy(sort QuerySortBy) Option {
	return func(q *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(sort.Field)
		if field == "" || (sort.Allow != nil && !sort.Allow[field]) {
			field = "created_at"
			sort.Desc = true
		}
		direction := "ASC"
		if sort.Desc || field == "created_at" {
			direction = "DESC"
		}
		return q.Order(field + " " + direction + ", id DESC")
	}
}
