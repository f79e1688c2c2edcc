// internal/content/query_test.go
//
// Pipeline unit tests: filter predicates, sort behavior, pagination
// clamping, and the page-reset invariant on the Params setters.
//
// Run: go test ./internal/content -v

package content

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func sampleRecords() []Record {
	return []Record{
		{ID: "1", Title: "Alpha", Slug: "alpha", Type: TypeMarketing, Status: StatusDraft, UpdatedAt: ts("2024-01-01")},
		{ID: "2", Title: "Beta", Slug: "beta", Type: TypeNews, Status: StatusPublished, UpdatedAt: ts("2024-02-01")},
		{ID: "3", Title: "Summer Sale", Slug: "summer-sale", Type: TypeMarketing, Status: StatusPublished, UpdatedAt: ts("2024-03-01")},
	}
}

func TestFilterAndSortIdempotent(t *testing.T) {
	recs := sampleRecords()
	p := NewParams()
	p.SetStatus(string(StatusPublished))

	first := FilterAndSort(recs, p)
	second := FilterAndSort(recs, p)

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order differs at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}

	// The input collection must be untouched.
	if recs[0].ID != "1" || recs[1].ID != "2" || recs[2].ID != "3" {
		t.Fatalf("input slice was mutated: %+v", recs)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	recs := sampleRecords()
	for _, term := range []string{"summer", "SUMMER", "Sum"} {
		p := NewParams()
		p.SetSearch(term)
		got := FilterAndSort(recs, p)
		if len(got) != 1 || got[0].ID != "3" {
			t.Errorf("search %q: got %d records, want [Summer Sale]", term, len(got))
		}
	}
}

func TestSearchMatchesSlug(t *testing.T) {
	recs := sampleRecords()
	p := NewParams()
	p.SetSearch("summer-sa")
	if got := FilterAndSort(recs, p); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("slug search missed: %+v", got)
	}
}

func TestFiltersAreConjunctive(t *testing.T) {
	recs := sampleRecords()
	p := NewParams()
	p.SetType(string(TypeMarketing))
	p.SetStatus(string(StatusPublished))
	got := FilterAndSort(recs, p)
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("want only the published marketing record, got %+v", got)
	}
}

func TestSortDirectionsAndKeys(t *testing.T) {
	recs := sampleRecords()

	p := NewParams()
	p.SetSort("updatedAt", SortDesc)
	got := FilterAndSort(recs, p)
	if got[0].ID != "3" || got[2].ID != "1" {
		t.Fatalf("updatedAt desc: wrong order %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}

	p.SetSort("title", SortAsc)
	got = FilterAndSort(recs, p)
	if got[0].Title != "Alpha" || got[2].Title != "Summer Sale" {
		t.Fatalf("title asc: wrong order %q %q %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestUnknownSortFieldKeepsInputOrder(t *testing.T) {
	recs := sampleRecords()
	p := NewParams()
	p.SetSort("nonsense", SortAsc)
	got := FilterAndSort(recs, p)
	for i, r := range got {
		if r.ID != recs[i].ID {
			t.Fatalf("unknown sort key reordered records: %+v", got)
		}
	}
}

func TestPaginateBounds(t *testing.T) {
	recs := sampleRecords()

	items, pg := Paginate(recs, 7, 10)
	if len(items) != 0 {
		t.Fatalf("out-of-range page returned %d items", len(items))
	}
	if pg.HasNext {
		t.Fatal("out-of-range page reports HasNext")
	}
	if !pg.HasPrev {
		t.Fatal("page 7 should report HasPrev")
	}

	items, pg = Paginate(nil, 1, 10)
	if len(items) != 0 || pg.TotalPages != 1 {
		t.Fatalf("empty collection: items=%d totalPages=%d", len(items), pg.TotalPages)
	}
}

func TestPaginateSlicing(t *testing.T) {
	recs := sampleRecords()
	items, pg := Paginate(recs, 2, 2)
	if len(items) != 1 || items[0].ID != "3" {
		t.Fatalf("page 2 of size 2: %+v", items)
	}
	if pg.Total != 3 || pg.TotalPages != 2 || pg.HasNext || !pg.HasPrev {
		t.Fatalf("bad metadata: %+v", pg)
	}
}

func TestFilterResetsPage(t *testing.T) {
	p := NewParams()
	p.SetPage(3)

	p.SetSearch("beta")
	if p.CurrentPage != 1 {
		t.Fatalf("SetSearch left CurrentPage = %d", p.CurrentPage)
	}

	p.SetPage(3)
	p.SetType(string(TypeNews))
	if p.CurrentPage != 1 {
		t.Fatalf("SetType left CurrentPage = %d", p.CurrentPage)
	}

	p.SetPage(3)
	p.SetStatus(string(StatusDraft))
	if p.CurrentPage != 1 {
		t.Fatalf("SetStatus left CurrentPage = %d", p.CurrentPage)
	}

	// Sorting keeps the page: it reorders, it does not refilter.
	p.SetPage(2)
	p.SetSort("title", SortAsc)
	if p.CurrentPage != 2 {
		t.Fatalf("SetSort reset CurrentPage to %d", p.CurrentPage)
	}
}

func TestPublishedDescScenario(t *testing.T) {
	recs := []Record{
		{ID: "1", Title: "Alpha", Status: StatusDraft, UpdatedAt: ts("2024-01-01")},
		{ID: "2", Title: "Beta", Status: StatusPublished, UpdatedAt: ts("2024-02-01")},
	}
	p := NewParams()
	p.SetStatus(string(StatusPublished))
	p.SetSort("updatedAt", SortDesc)

	ordered := FilterAndSort(recs, p)
	if len(ordered) != 1 || ordered[0].ID != "2" {
		t.Fatalf("filter result: %+v", ordered)
	}

	items, pg := Paginate(ordered, 1, 10)
	if len(items) != 1 || items[0].ID != "2" {
		t.Fatalf("page items: %+v", items)
	}
	want := Pagination{Page: 1, PageSize: 10, Total: 1, TotalPages: 1, HasNext: false, HasPrev: false}
	if pg != want {
		t.Fatalf("pagination = %+v, want %+v", pg, want)
	}
}
