// Package option provides composable gorm query modifiers used by the
// generic repository.
package option

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/praxisjuris/praxis/pkg/db/pagination"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithLimit caps the number of returned rows.
func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

// WithOffset skips the first n rows.
func WithOffset(offset int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if offset <= 0 {
			return db
		}
		return db.Offset(offset)
	})
}

// QuerySortBy restricts sortable columns to an allow list.
type QuerySortBy struct {
	Allow  map[string]bool
	SortBy string
	Order  string
}

// WithSortBy orders results by an allowed column, ascending by default.
func WithSortBy(sort QuerySortBy) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		column := strings.TrimSpace(sort.SortBy)
		if column == "" || !sort.Allow[column] {
			return db
		}
		order := "ASC"
		if strings.EqualFold(sort.Order, "desc") {
			order = "DESC"
		}
		return db.Order(fmt.Sprintf("%s %s", column, order))
	})
}

// WithTimeRange filters a timestamp column to [start, end).
func WithTimeRange(column string, start, end time.Time) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if column == "" {
			return db
		}
		if !start.IsZero() {
			db = db.Where(fmt.Sprintf("%s >= ?", column), start)
		}
		if !end.IsZero() {
			db = db.Where(fmt.Sprintf("%s < ?", column), end)
		}
		return db
	})
}

// ApplyPagination turns a cursor page request into a keyset filter. One extra
// row beyond the page size is fetched so the caller can detect a next page.
func ApplyPagination(page pagination.Pagination) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil && cursor.ID != "" && cursor.CreatedAt != "" {
				at, atErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
				id, idErr := strconv.ParseInt(cursor.ID, 10, 64)
				if atErr == nil && idErr == nil {
					db = db.Where(
						"created_at < ? OR (created_at = ? AND id < ?)",
						at, at, id,
					)
				}
			}
		}
		if page.PageSize > 0 {
			db = db.Limit(page.PageSize + 1)
		}
		return db
	})
}

// WithCondition adds a raw where clause.
func WithCondition(query string, args ...any) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}
