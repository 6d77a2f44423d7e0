package services

import (
	"math"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
)

// Pagination summarizes where a page sits in the full result set
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPagination computes the summary for a page that returned `returned` rows out of total
func NewPagination(page database.Page, returned int, total int64) Pagination {
	page = page.Normalize()
	return Pagination{
		Current: page.Number,
		Pages:   int(math.Ceil(float64(total) / float64(page.Size))),
		Total:   total,
		HasNext: int64(page.Offset()+returned) < total,
		HasPrev: page.Number > 1,
	}
}

// RequestMeta is provenance captured from the HTTP request, never from the body
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// parseID maps an unparseable id to not-found; such an id cannot name a stored record
func parseID(id, entity string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errs.NewNotFound(entity)
	}
	return parsed, nil
}

// uniqueCount returns the number of distinct strings across every list
func uniqueCount[T ~[]string](lists ...T) int {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, v := range list {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
