// internal/content/query.go
//
// Content query pipeline: filter → sort → paginate.
//
// Context
// -------
// The admin console fetches a whole content collection once, then derives
// "what the user currently sees" from the in-memory slice plus the current
// Params.  Both steps are pure and synchronous: no I/O, no mutation of the
// input slice, cheap enough to rerun on every keystroke.  Debouncing, if a
// caller wants it, lives in the caller.
//
// Notes
// -----
// • Filters are conjunctive; each predicate is skipped at its "no-op" value
//   (empty search term, "all" type, "all" status).
// • Sort is single-key and stable.  Timestamps compare as epoch
//   milliseconds, text compares case-insensitively, and an unknown SortBy
//   field compares everything as equal rather than erroring.
// • Paginate clamps instead of throwing: a page past the end yields an
//   empty slice.
// • Oxford commas, two spaces after periods.
package content

import (
	"sort"
	"strings"
)

// FilterAll is the no-op value for Params.FilterType and Params.FilterStatus.
const FilterAll = "all"

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params is the user-controlled view state driving the pipeline.  Use
// NewParams plus the setters; the setters maintain the page-reset invariant
// (changing any filter snaps CurrentPage back to 1 so the user never lands
// on an empty out-of-range page).
type Params struct {
	SearchTerm   string `json:"searchTerm"`
	FilterType   string `json:"filterType"`
	FilterStatus string `json:"filterStatus"`
	SortBy       string `json:"sortBy"`
	SortDir      string `json:"sortDirection"`
	CurrentPage  int    `json:"currentPage"`
	PageSize     int    `json:"pageSize"`
}

// NewParams returns the default view state: no filters, newest first,
// first page of twenty.
func NewParams() Params {
	return Params{
		FilterType:   FilterAll,
		FilterStatus: FilterAll,
		SortBy:       "updatedAt",
		SortDir:      SortDesc,
		CurrentPage:  1,
		PageSize:     20,
	}
}

// SetSearch updates the search term and resets to page 1.
func (p *Params) SetSearch(term string) {
	p.SearchTerm = term
	p.CurrentPage = 1
}

// SetType updates the type filter and resets to page 1.
func (p *Params) SetType(t string) {
	p.FilterType = t
	p.CurrentPage = 1
}

// SetStatus updates the status filter and resets to page 1.
func (p *Params) SetStatus(s string) {
	p.FilterStatus = s
	p.CurrentPage = 1
}

// SetSort changes the sort key and direction.  Sorting reorders the same
// result set, so the current page is kept.
func (p *Params) SetSort(field, dir string) {
	p.SortBy = field
	p.SortDir = dir
}

// SetPage moves to the given page.  Values below 1 clamp to 1.
func (p *Params) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	p.CurrentPage = n
}

// Pagination describes the derived page for the client.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// FilterAndSort applies the three conjunctive filters, then a stable
// single-key sort.  The input slice is never mutated; the returned slice is
// a fresh ordered view.
func FilterAndSort(records []Record, p Params) []Record {
	out := make([]Record, 0, len(records))

	term := strings.ToLower(p.SearchTerm)
	for _, r := range records {
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Title), term) &&
			!strings.Contains(strings.ToLower(r.Slug), term) {
			continue
		}
		if p.FilterType != "" && p.FilterType != FilterAll && string(r.Type) != p.FilterType {
			continue
		}
		if p.FilterStatus != "" && p.FilterStatus != FilterAll && string(r.Status) != p.FilterStatus {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compareBy(out[i], out[j], p.SortBy)
		if p.SortDir == SortDesc {
			c = -c
		}
		return c < 0
	})
	return out
}

// compareBy compares two records on one field.  Unknown fields compare as
// equal, which leaves the stable sort's input order intact.
func compareBy(a, b Record, field string) int {
	switch field {
	case "createdAt":
		return compareTime(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
	case "updatedAt":
		return compareTime(a.UpdatedAt.UnixMilli(), b.UpdatedAt.UnixMilli())
	case "title":
		return compareFold(a.Title, b.Title)
	case "slug":
		return compareFold(a.Slug, b.Slug)
	case "type":
		return compareFold(string(a.Type), string(b.Type))
	case "status":
		return compareFold(string(a.Status), string(b.Status))
	default:
		return 0
	}
}

func compareTime(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Paginate slices one page out of the ordered view and derives the
// pagination metadata.  Out-of-range pages return an empty slice, never an
// error; TotalPages is at least 1 so the UI always has a valid page count.
func Paginate(ordered []Record, page, pageSize int) ([]Record, Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(ordered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]Record, end-start)
	copy(items, ordered[start:end])

	return items, Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page*pageSize < total,
		HasPrev:    page > 1,
	}
}
