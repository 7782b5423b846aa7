// Package bot is the message router: it turns protocol events into joins,
// replies, log appends and generator ingestion.
package bot

import "context"

// Event is something the protocol client observed.
type Event interface {
	isEvent()
}

// SessionEstablished is emitted after every successful (re)connect.
type SessionEstablished struct{}

// ChatMessage is an inbound message stanza.
type ChatMessage struct {
	// From is the full sender address, room@domain/nick for room occupants.
	From    string
	Body    string
	IsError bool
}

func (SessionEstablished) isEvent() {}
func (ChatMessage) isEvent()        {}

// Client is the protocol side the router talks to. Both calls may fail with a
// transport error, which only affects that call.
type Client interface {
	// Join enters room under nick without requesting any backlog.
	Join(ctx context.Context, room, nick string) error
	// SendGroupMessage posts body to the room's bare address.
	SendGroupMessage(ctx context.Context, room, body string) error
}
