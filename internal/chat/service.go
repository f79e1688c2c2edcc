// internal/chat/service.go
//
// Capability-checked chat operations.
//
// Context
// -------
// Store (store.go) trusts its caller completely, so the Service is the one
// policy enforcement point: a mutating operation cannot be reached without a
// Capability, and a Capability is only minted by Authorize after the
// membership row has been read.  Controllers therefore cannot forget the
// check; forgetting it fails to compile.
//
// Role rules
// ----------
//   participant  – read rooms/messages, send messages, react.
//   sender       – edit own messages; delete own messages.
//   admin        – rename/delete rooms; delete anyone's message.
//
// Notes
// -----
// • Service is constructed once in main and injected; there is no package
//   singleton.
// • Oxford commas, two spaces after periods.
package chat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/circlehq/console/internal/metrics"
)

// Sentinel errors.  Controllers map these to 403/404; everything else is a
// store failure and becomes a 500.
var (
	ErrForbidden       = errors.New("chat: not permitted")
	ErrRoomNotFound    = errors.New("chat: room not found")
	ErrMessageNotFound = errors.New("chat: message not found")
)

// Capability proves that Authorize ran for (room, user).  The zero value
// grants nothing; only this package can mint a usable one.
type Capability struct {
	room   *Room
	userID string
	role   Role
}

// Room returns the room the capability was minted for.
func (c Capability) Room() *Room { return c.room }

// UserID returns the authorized user.
func (c Capability) UserID() string { return c.userID }

// Admin reports whether the underlying membership row carries the admin
// role.
func (c Capability) Admin() bool { return c.role == RoleAdmin }

// valid reports whether the capability was minted by Authorize.  The zero
// value fails, so a hand-built Capability{} is refused, never dereferenced.
func (c Capability) valid() bool { return c.room != nil && c.userID != "" }

// Service wires the store, the room cache, and the event subscribers.
type Service struct {
	store *Store
	rooms *roomCache
	subs  []Events
}

// NewService builds the one chat service for the process.  Subscribers are
// registered during boot via Subscribe and must not be added after traffic
// starts.
func NewService(db *sqlx.DB) *Service {
	store := NewStore(db)
	return &Service{
		store: store,
		rooms: newRoomCache(store),
	}
}

// Subscribe registers an event sink.  Boot-time only.
func (s *Service) Subscribe(e Events) { s.subs = append(s.subs, e) }

// Store exposes the persistence façade for read paths that need no
// capability, such as the membership questions IsParticipant and IsAdmin.
func (s *Service) Store() *Store { return s.store }

/*──────────────────────────── authorization ───────────────────────────────*/

// Authorize mints a Capability for userID in roomID.  ErrRoomNotFound when
// the room does not exist, ErrForbidden when the user holds no membership in
// the room's group.
func (s *Service) Authorize(ctx context.Context, roomID, userID string) (Capability, error) {
	room, err := s.rooms.get(ctx, roomID)
	if err != nil {
		return Capability{}, err
	}
	if room == nil {
		return Capability{}, ErrRoomNotFound
	}

	role, ok, err := s.store.membershipRole(ctx, room.GroupID, userID)
	if err != nil {
		return Capability{}, err
	}
	if !ok {
		metrics.AuthDeniedTotal.Inc()
		return Capability{}, ErrForbidden
	}
	return Capability{room: room, userID: userID, role: role}, nil
}

// AuthorizeGroup mints a group-scoped capability, used for listing and
// creating rooms before any room exists to authorize against.
func (s *Service) AuthorizeGroup(ctx context.Context, groupID, userID string) (Capability, error) {
	role, ok, err := s.store.membershipRole(ctx, groupID, userID)
	if err != nil {
		return Capability{}, err
	}
	if !ok {
		metrics.AuthDeniedTotal.Inc()
		return Capability{}, ErrForbidden
	}
	return Capability{room: &Room{GroupID: groupID}, userID: userID, role: role}, nil
}

/*──────────────────────────── rooms ────────────────────────────────────────*/

// Rooms lists the group's rooms.  Any member may list.
func (s *Service) Rooms(ctx context.Context, c Capability) ([]Room, error) {
	if !c.valid() {
		return nil, ErrForbidden
	}
	return s.store.RoomsByGroup(ctx, c.room.GroupID)
}

// CreateRoom creates a room in the capability's group.  Any member may
// create; type defaults to "group".
func (s *Service) CreateRoom(ctx context.Context, c Capability, name, roomType string) (*Room, error) {
	if !c.valid() {
		return nil, ErrForbidden
	}
	return s.store.CreateRoom(ctx, c.room.GroupID, name, roomType)
}

// RenameRoom requires the admin role.
func (s *Service) RenameRoom(ctx context.Context, c Capability, name string) error {
	if !c.valid() || !c.Admin() {
		metrics.AuthDeniedTotal.Inc()
		return ErrForbidden
	}
	if err := s.store.UpdateRoom(ctx, c.room.ID, name); err != nil {
		return err
	}
	s.rooms.invalidate(c.room.ID)
	return nil
}

// DeleteRoom requires the admin role.
func (s *Service) DeleteRoom(ctx context.Context, c Capability) error {
	if !c.valid() || !c.Admin() {
		metrics.AuthDeniedTotal.Inc()
		return ErrForbidden
	}
	if err := s.store.DeleteRoom(ctx, c.room.ID); err != nil {
		return err
	}
	s.rooms.invalidate(c.room.ID)
	return nil
}

// Participants lists the room's participants.  Holding a capability already
// proves participation.
func (s *Service) Participants(ctx context.Context, c Capability) ([]Participant, error) {
	if !c.valid() {
		return nil, ErrForbidden
	}
	return s.store.Participants(ctx, c.room)
}

/*──────────────────────────── messages ─────────────────────────────────────*/

// roomMessage loads messageID and confirms it belongs to the capability's
// room.  A message outside the room gets the same answer as a missing one,
// so callers cannot probe other rooms for message ids.
func (s *Service) roomMessage(ctx context.Context, c Capability, messageID string) (*Message, error) {
	if !c.valid() {
		return nil, ErrForbidden
	}
	msg, err := s.store.MessageByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.RoomID != c.room.ID {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// Messages pages through room history, oldest first within the page.
func (s *Service) Messages(ctx context.Context, c Capability, limit int, beforeID string) ([]Message, error) {
	if !c.valid() {
		return nil, ErrForbidden
	}
	return s.store.Messages(ctx, c.room.ID, limit, beforeID)
}

// SendMessage persists a message from the capability holder and fans the
// hydrated result out to subscribers.
func (s *Service) SendMessage(ctx context.Context, c Capability, content, msgType string,
	metadata json.RawMessage, replyTo *string) (*Message, error) {

	if !c.valid() {
		return nil, ErrForbidden
	}
	msg, err := s.store.SendMessage(ctx, c.room.ID, c.userID, content, msgType, metadata, replyTo)
	if err != nil {
		return nil, err
	}
	metrics.MessagesSentTotal.Inc()
	for _, sub := range s.subs {
		sub.MessageSent(*msg)
	}
	return msg, nil
}

// EditMessage rewrites content.  Only the sender may edit; admins may not
// rewrite other people's words.
func (s *Service) EditMessage(ctx context.Context, c Capability, messageID, content string) (*Message, error) {
	msg, err := s.roomMessage(ctx, c, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != c.userID {
		metrics.AuthDeniedTotal.Inc()
		return nil, ErrForbidden
	}
	if err := s.store.UpdateMessage(ctx, messageID, content); err != nil {
		return nil, err
	}
	return s.store.MessageByID(ctx, messageID)
}

// DeleteMessage soft-deletes.  The sender or any room admin may delete.
func (s *Service) DeleteMessage(ctx context.Context, c Capability, messageID string) error {
	msg, err := s.roomMessage(ctx, c, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != c.userID && !c.Admin() {
		metrics.AuthDeniedTotal.Inc()
		return ErrForbidden
	}
	if err := s.store.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	metrics.MessagesDeletedTotal.Inc()
	for _, sub := range s.subs {
		sub.MessageDeleted(c.room.ID, messageID)
	}
	return nil
}

/*──────────────────────────── reactions ────────────────────────────────────*/

// React adds (message, user, emoji).  Idempotent.  The message must live in
// the capability's room; a capability for one room grants nothing in
// another.
func (s *Service) React(ctx context.Context, c Capability, messageID, emoji string) error {
	if _, err := s.roomMessage(ctx, c, messageID); err != nil {
		return err
	}
	return s.store.AddReaction(ctx, messageID, c.userID, emoji)
}

// Unreact removes the tuple.  Idempotent, same room scoping as React.
func (s *Service) Unreact(ctx context.Context, c Capability, messageID, emoji string) error {
	if _, err := s.roomMessage(ctx, c, messageID); err != nil {
		return err
	}
	return s.store.RemoveReaction(ctx, messageID, c.userID, emoji)
}

// Reactions lists the reactions on one message in the capability's room.
func (s *Service) Reactions(ctx context.Context, c Capability, messageID string) ([]Reaction, error) {
	if _, err := s.roomMessage(ctx, c, messageID); err != nil {
		return nil, err
	}
	return s.store.Reactions(ctx, messageID)
}
