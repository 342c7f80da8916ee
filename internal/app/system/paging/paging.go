// internal/app/system/paging/paging.go
package paging

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 10
	MaxLimit     = 1000

	// MaxPage keeps (Page-1)*Limit within int for any accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Page is a 1-based offset page request.
type Page struct {
	Page  int
	Limit int
}

// Parse reads "page" and "limit" from the query string. Missing or
// non-positive values fall back to 1 and DefaultLimit; limit is capped at
// MaxLimit and page at MaxPage.
func Parse(r *http.Request) Page {
	return Page{
		Page:  Clamp(positive(query.Get(r, "page"), 1), MaxPage),
		Limit: Clamp(positive(query.Get(r, "limit"), DefaultLimit), MaxLimit),
	}
}

func positive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Clamp caps n at max.
func Clamp(n, max int) int {
	if n > max {
		return max
	}
	return n
}

// Skip is the number of documents before this page.
func (p Page) Skip() int64 { return int64((p.Page - 1) * p.Limit) }

// Apply sets skip and limit on find.
func (p Page) Apply(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Describe computes Meta for a result set of total documents.
func (p Page) Describe(total int64) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
