package database

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page/limit query values, falling back to 1/10 for anything non-numeric or below 1.
// Sizes above MaxPageSize are capped.
func ParsePage(page, limit string) Page {
	p := Page{Number: DefaultPage, Size: DefaultPageSize}
	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		p.Number = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n >= 1 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// Normalize applies the defaults and the size cap
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Offset(p.Offset()).Limit(p.Size)
}

// ProjectFilter narrows the project list. Empty fields do not filter.
type ProjectFilter struct {
	Category string // "all" or "" disables the filter
	Featured *bool
	Status   string
}

func (f ProjectFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("is_active = ?", true)
	if f.Category != "" && f.Category != "all" {
		db = db.Where("category = ?", f.Category)
	}
	if f.Featured != nil {
		db = db.Where("featured = ?", *f.Featured)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// ProjectSort selects the list ordering
type ProjectSort string

const (
	SortNewest   ProjectSort = "newest"
	SortOldest   ProjectSort = "oldest"
	SortFeatured ProjectSort = "featured"
	SortDefault  ProjectSort = "displayOrder"
)

func (s ProjectSort) columns() []clause.OrderByColumn {
	switch s {
	case SortNewest:
		return []clause.OrderByColumn{desc("start_date")}
	case SortOldest:
		return []clause.OrderByColumn{asc("start_date")}
	case SortFeatured:
		return []clause.OrderByColumn{desc("featured"), asc("display_order")}
	default:
		return []clause.OrderByColumn{asc("display_order"), desc("start_date")}
	}
}

func orderBy(cols ...clause.OrderByColumn) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.OrderBy{Columns: cols})
	}
}

func asc(name string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: name}}
}

func desc(name string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: true}
}
