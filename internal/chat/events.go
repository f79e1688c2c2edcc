// internal/chat/events.go
//
// Outbound event fan-out.
//
// Subscribers (push notification bridge, websocket hub, audit trail) are
// registered on the Service during boot and receive events synchronously on
// the request goroutine.  Slow subscribers should hand off to their own
// queue; the service does not buffer.
package chat

// Events is the subscriber contract.  Implementations must be safe for
// concurrent calls.
type Events interface {
	// MessageSent fires after a message row is committed and hydrated.
	MessageSent(msg Message)
	// MessageDeleted fires after a message is soft-deleted.
	MessageDeleted(roomID, messageID string)
}

// NopEvents discards everything.  Useful default and test stand-in.
type NopEvents struct{}

func (NopEvents) MessageSent(Message)           {}
func (NopEvents) MessageDeleted(string, string) {}
