// internal/routing/slug_test.go
//
// Table-driven checks for MakeSlug.
//
// Run: go test ./internal/routing -v

package routing

import (
	"strings"
	"testing"
)

func TestMakeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Summer Sale", "summer-sale"},
		{"  Hello,   World!  ", "hello-world"},
		{"Déjà Vu — 2024", "d-j-vu-2024"},
		{"MiXeD CaSe", "mixed-case"},
		{"!!!", "page"},
		{"", "page"},
		{"already-kebab", "already-kebab"},
	}
	for _, c := range cases {
		if got := MakeSlug(c.in); got != c.want {
			t.Errorf("MakeSlug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMakeSlugCap(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := MakeSlug(long)
	if len(got) > 80 {
		t.Fatalf("slug length %d exceeds cap", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("slug %q has trailing dash after truncation", got)
	}
}
