package pagination

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 4
	MaxPageSize     = 10

	PageParam     = "page"
	PageSizeParam = "per_page"
)

var ErrInvalidPage = errors.New("invalid page")

// Params is a page-number request
type Params struct {
	Page    int
	PerPage int
}

// ParseParams reads page and per_page from the query string. A malformed page is
// rejected; a malformed or oversized per_page falls back to the default or the cap.
func ParseParams(c *gin.Context) (Params, error) {
	p := Params{Page: 1, PerPage: DefaultPageSize}

	if raw := c.Query(PageParam); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, ErrInvalidPage
		}
		p.Page = page
	}

	if raw := c.Query(PageSizeParam); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			p.PerPage = min(size, MaxPageSize)
		}
	}

	return p, nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

// Page is the paginated list envelope
type Page[T any] struct {
	Pages    int     `json:"pages"`
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// New builds the envelope with absolute next/previous links derived from the current request.
// Requesting a page past the last one returns ErrInvalidPage; page 1 of an empty list is valid.
func New[T any](c *gin.Context, p Params, count int64, results []T) (*Page[T], error) {
	pages := int((count + int64(p.PerPage) - 1) / int64(p.PerPage))
	if pages == 0 {
		pages = 1
	}
	if p.Page > pages {
		return nil, ErrInvalidPage
	}
	if results == nil {
		results = []T{}
	}

	page := &Page[T]{
		Pages:   pages,
		Count:   count,
		Results: results,
	}
	if p.Page < pages {
		page.Next = pageLink(c, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageLink(c, p.Page-1)
	}
	return page, nil
}

func pageLink(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	q := c.Request.URL.Query()
	q.Set(PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()

	link := u.String()
	return &link
}
