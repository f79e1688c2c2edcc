// internal/content/record.go
//
// Content record model.
//
// Context
// -------
// A Record is one manageable content unit (marketing page, news article,
// inspiration card, or popup).  Rows live in the `content` table; the
// snake_case columns never leak past this package—JSON tags keep the HTTP
// boundary camelCase.
//
// Notes
// -----
// • `id` is immutable once created.
// • `slug` uniqueness is a database concern (unique key), not a pipeline
//   concern.  The query pipeline treats duplicate slugs as ordinary data.
// • Oxford commas, two spaces after periods.
package content

import "time"

// Type classifies a content unit.  Stored as a plain string column.
type Type string

const (
	TypeMarketing   Type = "marketing"
	TypeNews        Type = "news"
	TypeInspiration Type = "inspiration"
	TypePopup       Type = "popup"
)

// Status tracks the publication lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Record mirrors one row in the `content` table.
type Record struct {
	ID        string    `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	Slug      string    `db:"slug"       json:"slug"`
	Type      Type      `db:"type"       json:"type"`
	Status    Status    `db:"status"     json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
