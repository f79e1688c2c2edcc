// internal/content/repository.go
//
// Persistence for content records.
//
// Context
// -------
// Thin parameterised-SQL helpers over the shared *sqlx.DB pool.  The query
// pipeline in query.go never touches the database; controllers fetch the
// collection with All(), run the pipeline in memory, and return the derived
// page.  Mutations stamp updated_at so the "newest first" default sort
// reflects edit activity.
//
// Notes
// -----
// • Slugs are derived from the title via routing.MakeSlug; the unique key on
//   `slug` is the enforcement point, so a duplicate title surfaces as a
//   driver error, not a silent overwrite.
// • Delete is a hard delete.  Content has no reply-thread concern, unlike
//   chat messages.
package content

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/circlehq/console/internal/routing"
)

// All returns the whole collection, newest first by default ordering of the
// pipeline.  No WHERE clause: filtering is the pipeline's job.
func All(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = `
        SELECT id, title, slug, type, status, created_at, updated_at
        FROM   content`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByID fetches one record, or nil when the id is unknown.
func ByID(ctx context.Context, db *sqlx.DB, id string) (*Record, error) {
	const q = `
        SELECT id, title, slug, type, status, created_at, updated_at
        FROM   content
        WHERE  id = ?
        LIMIT  1`
	var rec Record
	err := db.GetContext(ctx, &rec, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserts a new draft record.  The id is a fresh UUID and the slug is
// derived from the title.
func Create(ctx context.Context, db *sqlx.DB, title string, typ Type) (*Record, error) {
	now := time.Now().UTC()
	rec := Record{
		ID:        uuid.NewString(),
		Title:     title,
		Slug:      routing.MakeSlug(title),
		Type:      typ,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const q = `
        INSERT INTO content (id, title, slug, type, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, q,
		rec.ID, rec.Title, rec.Slug, rec.Type, rec.Status, rec.CreatedAt, rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update rewrites title and slug.  Type changes are not supported; create a
// new record instead.
func Update(ctx context.Context, db *sqlx.DB, id, title string) error {
	const q = `
        UPDATE content
        SET    title = ?, slug = ?, updated_at = ?
        WHERE  id = ?`
	_, err := db.ExecContext(ctx, q, title, routing.MakeSlug(title), time.Now().UTC(), id)
	return err
}

// SetStatus moves a record through its lifecycle (draft → published →
// archived).  Callers pass one of the Status constants.
func SetStatus(ctx context.Context, db *sqlx.DB, id string, status Status) error {
	const q = `
        UPDATE content
        SET    status = ?, updated_at = ?
        WHERE  id = ?`
	_, err := db.ExecContext(ctx, q, status, time.Now().UTC(), id)
	return err
}

// Delete removes the row permanently.
func Delete(ctx context.Context, db *sqlx.DB, id string) error {
	const q = `DELETE FROM content WHERE id = ?`
	_, err := db.ExecContext(ctx, q, id)
	return err
}
