// internal/routing/slug.go
//
// Slug helpers for content pages.
//
// Rules (MakeSlug)
// ----------------
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one "-".  That strips
//    spaces, punctuation, emoji, and non-ASCII.
// 3. Collapse consecutive "-" to a single "-".
// 4. Trim leading / trailing "-".
// 5. If the result is empty, return "page".
//
// Notes
// -----
// • No Unicode transliteration; the console is English-only for now.
// • Slugs are capped at 80 bytes so they stay comfortably inside the
//   varchar column and the public URL.

package routing

import "strings"

// MakeSlug converts a title into lower-kebab ASCII.
func MakeSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "page"
	}
	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}
	return slug
}
