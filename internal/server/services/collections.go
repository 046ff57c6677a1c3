package services

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/repomanager"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type Page struct {
	Data       []any      `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type CollectionCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager) *CollectionService {
	return &CollectionService{db: db, repomanager: m}
}

// NormalizePaging replaces a page or limit below 1 with its default.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// List returns one page of the named collection. Unknown names fail with
// common.ErrUnknownCollection before any query runs.
func (s *CollectionService) List(ctx context.Context, name string, page, limit int) (*Page, error) {
	n := collections.Name(name)
	if !collections.Known(n) {
		return nil, common.ErrUnknownCollection
	}

	page, limit = NormalizePaging(page, limit)
	repo := s.repomanager.Collections(s.db)

	total, err := repo.Count(ctx, n)
	if err != nil {
		return nil, upstream(err)
	}

	data := []any{}
	if offset, ok := pageOffset(page, limit); ok {
		data, err = repo.List(ctx, n, limit, offset)
		if err != nil {
			return nil, upstream(err)
		}
	}

	return &Page{
		Data: data,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, int64(limit)),
		},
	}, nil
}

// pageOffset returns the row offset of page. ok is false when the offset
// does not fit in an int; such a page is past any stored row.
func pageOffset(page, limit int) (int, bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// totalPages is ceil(total / limit) for a positive limit.
func totalPages(total, limit int64) int64 {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// Counts returns the size of every collection in display order.
func (s *CollectionService) Counts(ctx context.Context) ([]CollectionCount, error) {
	repo := s.repomanager.Collections(s.db)

	out := make([]CollectionCount, 0, len(collections.Names))
	for _, n := range collections.Names {
		c, err := repo.Count(ctx, n)
		if err != nil {
			if errors.Is(err, common.ErrUnknownCollection) {
				return nil, err
			}
			return nil, upstream(err)
		}
		out = append(out, CollectionCount{Name: string(n), Count: c})
	}
	return out, nil
}
