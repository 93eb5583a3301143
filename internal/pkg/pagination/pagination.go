package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/pkg/response"
)

const (
	DefaultPage = 1
	MaxLimit    = 100
	// MaxPage keeps (page-1)*limit far inside int64.
	MaxPage = 1<<31 - 1
)

// Query holds parsed pagination parameters.
type Query struct {
	Page  int
	Limit int
}

// FromContext reads ?page and ?limit, falling back to defaultLimit and clamping to MaxPage and MaxLimit.
func FromContext(c *gin.Context, defaultLimit int) Query {
	page := ParseIntOr(c.Query("page"), DefaultPage)
	limit := ParseIntOr(c.Query("limit"), defaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{Page: page, Limit: limit}
}

// Skip is the number of documents to skip for the current page.
func (q Query) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// Meta builds the response pagination block.
func (q Query) Meta(total int64, count int) response.Pagination {
	pages := 0
	if q.Limit > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return response.Pagination{
		Count: count,
		Total: total,
		Page:  q.Page,
		Pages: pages,
	}
}

// ParseIntOr parses s, returning def when s is empty or malformed.
func ParseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
