// Package views holds the presentation models the templates render: the
// pager window and the list state (page/limit/sort) that every link, form
// and redirect has to carry so the reader never loses their place.
package views

import (
	"html/template"
	"net/url"
	"strconv"

	"corkboard/internal/listing"
)

// ListState is the round-tripped listing position.
type ListState struct {
	Page  int
	Limit int
	Sort  string
}

// ParseListState applies the defaults: anything missing, non-numeric or
// below 1 becomes page 1 / limit 10; unknown sort keys become latest.
func ParseListState(page, limit, sort string) ListState {
	s := ListState{
		Page:  listing.DefaultPage,
		Limit: listing.DefaultLimit,
		Sort:  listing.NormalizeSort(sort),
	}
	if n, err := strconv.Atoi(page); err == nil && n >= 1 {
		s.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n >= 1 {
		s.Limit = n
	}
	return s
}

// Encode returns the state as a query string (no leading "?").
func (s ListState) Encode() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("limit", strconv.Itoa(s.Limit))
	v.Set("sort", s.Sort)
	return v.Encode()
}

// Query is Encode for templates. It returns template.URL so the contextual
// autoescaper does not percent-encode the separators of an already-encoded
// query string.
func (s ListState) Query() template.URL {
	return template.URL(s.Encode())
}

// QueryForPage is Query with a different page, for pager links.
func (s ListState) QueryForPage(page int) template.URL {
	s.Page = page
	return s.Query()
}

// QueryForSort is Query rewound to page 1 with another sort key, for the
// sort control links.
func (s ListState) QueryForSort(sort string) template.URL {
	s.Page = 1
	s.Sort = listing.NormalizeSort(sort)
	return s.Query()
}

// QueryForLimit is Query rewound to page 1 with another page size.
func (s ListState) QueryForLimit(limit int) template.URL {
	s.Page = 1
	if limit >= 1 {
		s.Limit = limit
	}
	return s.Query()
}

// Pager is a window of at most groupSize consecutive page numbers around the
// current page's group, with links to the neighbouring groups.
type Pager struct {
	Pages         []int
	Current       int
	TotalPages    int
	HasPrevGroup  bool
	PrevGroupPage int
	HasNextGroup  bool
	NextGroupPage int
}

const groupSize = 5

// BuildPager computes the window. Empty returns true (no Pages) when
// everything fits on one page.
func BuildPager(total, page, limit int) Pager {
	totalPages := listing.TotalPages(total, limit)
	p := Pager{Current: page, TotalPages: totalPages}
	if totalPages <= 1 {
		return p
	}
	// Window around the nearest real page even if the request overshot.
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	first := ((page-1)/groupSize)*groupSize + 1
	last := first + groupSize - 1
	if last > totalPages {
		last = totalPages
	}

	for n := first; n <= last; n++ {
		p.Pages = append(p.Pages, n)
	}
	if first > 1 {
		p.HasPrevGroup = true
		p.PrevGroupPage = first - 1
	}
	if last < totalPages {
		p.HasNextGroup = true
		p.NextGroupPage = last + 1
	}
	return p
}

// Empty reports whether the pager should render at all.
func (p Pager) Empty() bool {
	return len(p.Pages) == 0
}
