// internal/chat/store.go
//
// Persistence façade for rooms, memberships, messages, and reactions.
//
// Context
// -------
// Store is deliberately dumb: parameterised SQL over the shared pool, no
// authorization, no retries, no cross-statement transactions.  Every call is
// atomic at the statement level only.  Policy lives in Service (service.go),
// which refuses to hand out a mutating path without a Capability.
//
// "Not found" is a nil entity with a nil error; every other store failure
// propagates unmodified to the caller.
//
// Notes
// -----
// • SendMessage is insert-then-reread on the same pool.  The pair is not
//   transactional: a crash between the two statements leaves the row
//   persisted but unreturned, and the caller re-fetches on retry.
// • Oxford commas, two spaces after periods.
package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Store issues parameterised SQL against the chat tables.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open pool.  The pool manages its own connection
// lifecycle; Store never closes it.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

/*──────────────────────────── membership ───────────────────────────────────*/

// membershipRole returns the role of userID in groupID.  The second return
// is false when no membership row exists.
func (s *Store) membershipRole(ctx context.Context, groupID, userID string) (Role, bool, error) {
	const q = `SELECT role
                 FROM group_member
                WHERE group_id = ? AND user_id = ?
                LIMIT 1`
	var role Role
	err := s.db.GetContext(ctx, &role, q, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

// IsParticipant reports whether userID holds any membership in the room's
// owning group.  Pure read, no side effect.
func (s *Store) IsParticipant(ctx context.Context, room *Room, userID string) (bool, error) {
	_, ok, err := s.membershipRole(ctx, room.GroupID, userID)
	return ok, err
}

// IsAdmin reports whether userID's membership role in the room's group is
// admin.  IsAdmin true implies IsParticipant true; both read the same row.
func (s *Store) IsAdmin(ctx context.Context, room *Room, userID string) (bool, error) {
	role, ok, err := s.membershipRole(ctx, room.GroupID, userID)
	return ok && role == RoleAdmin, err
}

// Participants joins membership rows for the room's group against the user
// profile table.  No ORDER BY: callers must not depend on ordering.
func (s *Store) Participants(ctx context.Context, room *Room) ([]Participant, error) {
	const q = `SELECT gm.user_id, gm.role, gm.joined_at, u.name, u.avatar_url
                 FROM group_member gm
                 JOIN user u ON u.id = gm.user_id
                WHERE gm.group_id = ?`
	var rows []Participant
	if err := s.db.SelectContext(ctx, &rows, q, room.GroupID); err != nil {
		return nil, err
	}
	return rows, nil
}

/*──────────────────────────── rooms ────────────────────────────────────────*/

// RoomByID fetches one room, or nil when the id is unknown.
func (s *Store) RoomByID(ctx context.Context, roomID string) (*Room, error) {
	const q = `SELECT id, group_id, name, type, created_at, updated_at
                 FROM room
                WHERE id = ?
                LIMIT 1`
	var r Room
	err := s.db.GetContext(ctx, &r, q, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RoomsByGroup lists every room owned by groupID, newest first.
func (s *Store) RoomsByGroup(ctx context.Context, groupID string) ([]Room, error) {
	const q = `SELECT id, group_id, name, type, created_at, updated_at
                 FROM room
                WHERE group_id = ?
                ORDER BY created_at DESC`
	var rows []Room
	if err := s.db.SelectContext(ctx, &rows, q, groupID); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateRoom inserts exactly one room row scoped to groupID.  An empty
// roomType defaults to "group".  Duplicate names within a group are
// permitted; there is no uniqueness constraint on name.
func (s *Store) CreateRoom(ctx context.Context, groupID, name, roomType string) (*Room, error) {
	if roomType == "" {
		roomType = DefaultRoomType
	}
	now := time.Now().UTC()
	r := Room{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Name:      name,
		Type:      roomType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const q = `INSERT INTO room (id, group_id, name, type, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		r.ID, r.GroupID, r.Name, r.Type, r.CreatedAt, r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRoom renames a room.  No authorization here; Service gates the call
// behind an admin Capability.
func (s *Store) UpdateRoom(ctx context.Context, roomID, name string) error {
	const q = `UPDATE room SET name = ?, updated_at = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, name, time.Now().UTC(), roomID)
	return err
}

// DeleteRoom removes the room row.  Messages and reactions go with it via
// ON DELETE CASCADE on the foreign keys.
func (s *Store) DeleteRoom(ctx context.Context, roomID string) error {
	const q = `DELETE FROM room WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, roomID)
	return err
}

/*──────────────────────────── messages ─────────────────────────────────────*/

// hydratedMessage is the canonical read shape: the message row joined with
// the sender profile plus the reaction aggregate.  Soft-deleted rows never
// match.
const hydratedMessage = `
SELECT m.id, m.room_id, m.sender_id, m.content, m.type, m.metadata,
       m.reply_to, m.created_at, m.updated_at,
       u.name AS sender_name,
       (SELECT COUNT(*) FROM message_reaction r WHERE r.message_id = m.id) AS reaction_count
  FROM message m
  JOIN user u ON u.id = m.sender_id`

// SendMessage inserts a message row, then re-reads it hydrated.  The
// returned value always reflects the just-committed row; read-after-write on
// the same pool is the only consistency assumption.
func (s *Store) SendMessage(ctx context.Context, roomID, senderID, content, msgType string,
	metadata json.RawMessage, replyTo *string) (*Message, error) {

	if msgType == "" {
		msgType = "text"
	}
	id := uuid.NewString()
	now := time.Now().UTC()

	const q = `INSERT INTO message
               (id, room_id, sender_id, content, type, metadata, reply_to, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		id, roomID, senderID, content, msgType, []byte(metadata), replyTo, now, now); err != nil {
		return nil, err
	}
	return s.MessageByID(ctx, id)
}

// MessageByID fetches one hydrated message, or nil when the id is unknown or
// the row is soft-deleted.
func (s *Store) MessageByID(ctx context.Context, messageID string) (*Message, error) {
	q := hydratedMessage + `
 WHERE m.id = ? AND m.deleted_at IS NULL
 LIMIT 1`
	var m Message
	err := s.db.GetContext(ctx, &m, q, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Messages pages backwards through a room's history.  beforeID, when
// non-empty, anchors the page at an earlier message.  Results come back in
// ascending send order, the shape chat clients append to directly.
func (s *Store) Messages(ctx context.Context, roomID string, limit int, beforeID string) ([]Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := hydratedMessage + `
 WHERE m.room_id = ? AND m.deleted_at IS NULL`
	args := []any{roomID}
	if beforeID != "" {
		q += `
   AND m.created_at < (SELECT created_at FROM message WHERE id = ?)`
		args = append(args, beforeID)
	}
	q += `
 ORDER BY m.created_at DESC
 LIMIT ?`
	args = append(args, limit)

	var rows []Message
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	// Flip to ascending.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// UpdateMessage rewrites content only; type and metadata are untouched.
// Sender-identity checks are Service's job.
func (s *Store) UpdateMessage(ctx context.Context, messageID, content string) error {
	const q = `UPDATE message
                  SET content = ?, updated_at = ?
                WHERE id = ? AND deleted_at IS NULL`
	_, err := s.db.ExecContext(ctx, q, content, time.Now().UTC(), messageID)
	return err
}

// DeleteMessage marks the row deleted instead of removing it, so replies
// that reference it keep a valid anchor.  Deleting an already-deleted
// message is a no-op.
func (s *Store) DeleteMessage(ctx context.Context, messageID string) error {
	const q = `UPDATE message
                  SET deleted_at = ?
                WHERE id = ? AND deleted_at IS NULL`
	_, err := s.db.ExecContext(ctx, q, time.Now().UTC(), messageID)
	return err
}

/*──────────────────────────── reactions ────────────────────────────────────*/

// AddReaction records (message, user, emoji).  INSERT IGNORE makes a
// duplicate add a no-op rather than a constraint error.
func (s *Store) AddReaction(ctx context.Context, messageID, userID, emoji string) error {
	const q = `INSERT IGNORE INTO message_reaction (message_id, user_id, emoji, created_at)
               VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, messageID, userID, emoji, time.Now().UTC())
	return err
}

// RemoveReaction deletes the tuple.  Removing a reaction that was never
// added is a no-op, not an error.
func (s *Store) RemoveReaction(ctx context.Context, messageID, userID, emoji string) error {
	const q = `DELETE FROM message_reaction
                WHERE message_id = ? AND user_id = ? AND emoji = ?`
	_, err := s.db.ExecContext(ctx, q, messageID, userID, emoji)
	return err
}

// Reactions lists every reaction on one message.
func (s *Store) Reactions(ctx context.Context, messageID string) ([]Reaction, error) {
	const q = `SELECT message_id, user_id, emoji, created_at
                 FROM message_reaction
                WHERE message_id = ?`
	var rows []Reaction
	if err := s.db.SelectContext(ctx, &rows, q, messageID); err != nil {
		return nil, err
	}
	return rows, nil
}
