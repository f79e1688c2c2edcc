// internal/chat/store_test.go
//
// Unit tests for the persistence façade using sqlmock.  No live database;
// expectations pin the exact parameterised SQL each operation issues.
//
// Run: go test ./internal/chat -v

package chat

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	sdb := sqlx.NewDb(db, "mysql")
	return NewStore(sdb), mock, func() { sdb.Close() }
}

const membershipQ = `SELECT role FROM group_member WHERE group_id = ? AND user_id = ? LIMIT 1`

func expectRole(mock sqlmock.Sqlmock, groupID, userID, role string) {
	rows := sqlmock.NewRows([]string{"role"})
	if role != "" {
		rows.AddRow(role)
	}
	mock.ExpectQuery(regexp.QuoteMeta(membershipQ)).
		WithArgs(groupID, userID).
		WillReturnRows(rows)
}

func TestMembershipScenario(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	room := &Room{ID: "r1", GroupID: "g1"}

	expectRole(mock, "g1", "alice", "member")
	ok, err := s.IsParticipant(context.Background(), room, "alice")
	if err != nil || !ok {
		t.Fatalf("member should be a participant: ok=%v err=%v", ok, err)
	}

	expectRole(mock, "g1", "bob", "")
	ok, err = s.IsParticipant(context.Background(), room, "bob")
	if err != nil || ok {
		t.Fatalf("non-member should not be a participant: ok=%v err=%v", ok, err)
	}

	expectRole(mock, "g1", "alice", "member")
	ok, err = s.IsAdmin(context.Background(), room, "alice")
	if err != nil || ok {
		t.Fatalf("plain member should not be admin: ok=%v err=%v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestAdminImpliesParticipant(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	room := &Room{ID: "r1", GroupID: "g1"}

	// Both questions read the same membership row, so an admin answer for
	// one user must never disagree with the participant answer.
	expectRole(mock, "g1", "carol", "admin")
	isAdmin, err := s.IsAdmin(context.Background(), room, "carol")
	if err != nil || !isAdmin {
		t.Fatalf("IsAdmin: ok=%v err=%v", isAdmin, err)
	}

	expectRole(mock, "g1", "carol", "admin")
	isPart, err := s.IsParticipant(context.Background(), room, "carol")
	if err != nil || !isPart {
		t.Fatalf("admin must also be participant: ok=%v err=%v", isPart, err)
	}
}

func TestRoomByIDMissingIsNil(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, group_id, name, type, created_at, updated_at FROM room WHERE id = ? LIMIT 1`,
	)).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id", "name", "type", "created_at", "updated_at"}))

	room, err := s.RoomByID(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("missing room must not error: %v", err)
	}
	if room != nil {
		t.Fatalf("missing room must be nil, got %+v", room)
	}
}

func TestCreateRoomDefaultsType(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO room (id, group_id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
	)).WithArgs(sqlmock.AnyArg(), "g1", "General", "group", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	room, err := s.CreateRoom(context.Background(), "g1", "General", "")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.Type != "group" {
		t.Fatalf("empty type must default to %q, got %q", "group", room.Type)
	}
	if room.ID == "" {
		t.Fatal("CreateRoom returned empty id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSendMessageRereadsHydratedRow(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO message (id, room_id, sender_id, content, type, metadata, reply_to, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)).WithArgs(sqlmock.AnyArg(), "r1", "alice", "hi", "text",
		sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT m\.id, m\.room_id, m\.sender_id`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_id", "sender_id", "content", "type", "metadata",
			"reply_to", "created_at", "updated_at", "sender_name", "reaction_count",
		}).AddRow("m1", "r1", "alice", "hi", "text", []byte(`{}`), nil, now, now, "Alice", 0))

	msg, err := s.SendMessage(context.Background(), "r1", "alice", "hi", "", nil, nil)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.SenderName != "Alice" || msg.ReactionCount != 0 {
		t.Fatalf("message not hydrated: %+v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMessageNullMetadataScans(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	// Plain text messages carry no metadata, so the column is NULL far more
	// often than not.  The scan must yield a nil pointer, not an error.
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT m\.id, m\.room_id, m\.sender_id`).
		WithArgs("m1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_id", "sender_id", "content", "type", "metadata",
			"reply_to", "created_at", "updated_at", "sender_name", "reaction_count",
		}).AddRow("m1", "r1", "alice", "hi", "text", nil, nil, now, now, "Alice", 0))

	msg, err := s.MessageByID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("NULL metadata must scan cleanly: %v", err)
	}
	if msg.Metadata != nil {
		t.Fatalf("want nil metadata, got %s", *msg.Metadata)
	}

	// A populated column still comes through verbatim.
	mock.ExpectQuery(`SELECT m\.id, m\.room_id, m\.sender_id`).
		WithArgs("m2").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_id", "sender_id", "content", "type", "metadata",
			"reply_to", "created_at", "updated_at", "sender_name", "reaction_count",
		}).AddRow("m2", "r1", "alice", "pin", "text", []byte(`{"pinned":true}`), nil, now, now, "Alice", 0))

	msg, err = s.MessageByID(context.Background(), "m2")
	if err != nil {
		t.Fatalf("MessageByID: %v", err)
	}
	if msg.Metadata == nil || string(*msg.Metadata) != `{"pinned":true}` {
		t.Fatalf("metadata lost in scan: %+v", msg.Metadata)
	}
}

func TestDeleteMessageIsSoft(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	// Deletion must be an UPDATE setting deleted_at, not a DELETE.
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE message SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
	)).WithArgs(sqlmock.AnyArg(), "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteMessage(context.Background(), "m1"); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestReactionIdempotence(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	ins := regexp.QuoteMeta(
		`INSERT IGNORE INTO message_reaction (message_id, user_id, emoji, created_at) VALUES (?, ?, ?, ?)`)

	// First add inserts a row; the duplicate is ignored by the engine.
	mock.ExpectExec(ins).
		WithArgs("m1", "alice", "👍", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(ins).
		WithArgs("m1", "alice", "👍", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := s.AddReaction(ctx, "m1", "alice", "👍"); err != nil {
		t.Fatalf("first AddReaction: %v", err)
	}
	if err := s.AddReaction(ctx, "m1", "alice", "👍"); err != nil {
		t.Fatalf("duplicate AddReaction must be a no-op, got %v", err)
	}

	// Removing a tuple that was never added is also a no-op.
	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM message_reaction WHERE message_id = ? AND user_id = ? AND emoji = ?`,
	)).WithArgs("m1", "bob", "🎉").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.RemoveReaction(ctx, "m1", "bob", "🎉"); err != nil {
		t.Fatalf("RemoveReaction of absent tuple must not error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestMessagesPagesBackwards(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT m\.id, m\.room_id, m\.sender_id`).
		WithArgs("r1", 2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_id", "sender_id", "content", "type", "metadata",
			"reply_to", "created_at", "updated_at", "sender_name", "reaction_count",
		}).
			AddRow("m2", "r1", "a", "second", "text", nil, nil, now, now, "A", 0).
			AddRow("m1", "r1", "a", "first", "text", nil, nil, now.Add(-time.Minute), now, "A", 0))

	msgs, err := s.Messages(context.Background(), "r1", 2, "")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	// Store reads newest-first, then flips to ascending for the client.
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Fatalf("want ascending [m1 m2], got %+v", msgs)
	}
}
