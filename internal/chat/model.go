// internal/chat/model.go
//
// Chat data model.
//
// Context
// -------
// A Room belongs to exactly one group (a circle/household).  There is no
// per-room participant table: membership in the owning group *is*
// participation in every room of that group, and a group admin is an admin
// of every room in the group.  Messages are soft-deleted so reply threads
// stay intact; reactions are unique per (message, user, emoji) tuple.
//
// Rows are mapped onto plain structs with `db:` tags and re-exposed with
// camelCase JSON.  No behavior is attached to query results; all logic lives
// in Store and Service.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package chat

import (
	"encoding/json"
	"time"
)

// Role is a group-membership role.  Admin implies participant: both derive
// from the same membership row.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Room types are an open string enum.  "group" is the default; product may
// add more without a schema change.
const DefaultRoomType = "group"

// Room mirrors one row in the `room` table.
type Room struct {
	ID        string    `db:"id"         json:"id"`
	GroupID   string    `db:"group_id"   json:"groupId"`
	Name      string    `db:"name"       json:"name"`
	Type      string    `db:"type"       json:"type"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Participant is one membership row joined against the user profile table.
// Ordering of participant lists is unspecified; callers must not rely on it.
type Participant struct {
	UserID    string    `db:"user_id"    json:"userId"`
	Role      Role      `db:"role"       json:"role"`
	JoinedAt  time.Time `db:"joined_at"  json:"joinedAt"`
	Name      string    `db:"name"       json:"name"`
	AvatarURL string    `db:"avatar_url" json:"avatarUrl"`
}

// Message mirrors one row in the `message` table, hydrated with the sender
// profile and the reaction count.  DeletedAt is always NULL on values that
// leave this package; soft-deleted rows are filtered out of every read.
//
// Metadata is a pointer because the column is nullable: a NULL scans to a
// nil pointer, and the nil pointer is omitted from JSON.
type Message struct {
	ID            string           `db:"id"             json:"id"`
	RoomID        string           `db:"room_id"        json:"roomId"`
	SenderID      string           `db:"sender_id"      json:"senderId"`
	Content       string           `db:"content"        json:"content"`
	Type          string           `db:"type"           json:"type"`
	Metadata      *json.RawMessage `db:"metadata"       json:"metadata,omitempty"`
	ReplyTo       *string          `db:"reply_to"       json:"replyTo,omitempty"`
	CreatedAt     time.Time        `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time        `db:"updated_at"     json:"updatedAt"`
	SenderName    string           `db:"sender_name"    json:"senderName"`
	ReactionCount int              `db:"reaction_count" json:"reactionCount"`
}

// Reaction mirrors one row in `message_reaction`.  The table carries a
// UNIQUE(message_id, user_id, emoji) key; duplicate adds are no-ops.
type Reaction struct {
	MessageID string    `db:"message_id" json:"messageId"`
	UserID    string    `db:"user_id"    json:"userId"`
	Emoji     string    `db:"emoji"      json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
