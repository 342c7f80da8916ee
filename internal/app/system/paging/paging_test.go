package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  Page
	}{
		{"", Page{Page: 1, Limit: DefaultLimit}},
		{"?page=3&limit=25", Page{Page: 3, Limit: 25}},
		{"?page=0&limit=-4", Page{Page: 1, Limit: DefaultLimit}},
		{"?page=abc&limit=xyz", Page{Page: 1, Limit: DefaultLimit}},
		{"?limit=5000", Page{Page: 1, Limit: MaxLimit}},
		{"?page=1000000000000000000&limit=100", Page{Page: MaxPage, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/lead"+tt.query, nil)
			if got := Parse(r); got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := (Page{Page: 1, Limit: 10}).Skip(); got != 0 {
		t.Errorf("Skip() = %d, want 0", got)
	}
	if got := (Page{Page: 4, Limit: 25}).Skip(); got != 75 {
		t.Errorf("Skip() = %d, want 75", got)
	}
}

func TestSkip_HugePageStaysNonNegative(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/lead?page=1000000000000000000&limit=1000", nil)
	p := Parse(r)
	got := p.Skip()
	if got < 0 {
		t.Fatalf("Skip() = %d, want non-negative", got)
	}
	if want := int64(MaxPage-1) * MaxLimit; got != want {
		t.Errorf("Skip() = %d, want %d", got, want)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		page  Page
		total int64
		want  Meta
	}{
		{"empty", Page{1, 10}, 0, Meta{Page: 1, Limit: 10, Total: 0, TotalPages: 0}},
		{"single page", Page{1, 10}, 7, Meta{Page: 1, Limit: 10, Total: 7, TotalPages: 1}},
		{"first of three", Page{1, 10}, 25, Meta{Page: 1, Limit: 10, Total: 25, TotalPages: 3, HasNext: true}},
		{"middle", Page{2, 10}, 25, Meta{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}},
		{"last exact", Page{2, 10}, 20, Meta{Page: 2, Limit: 10, Total: 20, TotalPages: 2, HasPrev: true}},
		{"past the end", Page{9, 10}, 20, Meta{Page: 9, Limit: 10, Total: 20, TotalPages: 2, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Describe(tt.total); got != tt.want {
				t.Errorf("Describe(%d) = %+v, want %+v", tt.total, got, tt.want)
			}
		})
	}
}
