// Package room holds the session record of every joined chat room and the
// registry that routes inbound messages to them.
package room

import (
	"time"

	"mellium.im/xmpp/jid"
)

// DefaultNick is used when neither the room, the config nor the account provides one.
const DefaultNick = "ash"

// Key identifies a room by its address.
type Key struct {
	Local  string
	Domain string
}

// Room is one joined group chat. Cooldowns are mutated only by the router goroutine.
type Room struct {
	// Address is the bare room address.
	Address jid.JID
	// Nick is the name the bot answers to and joins under.
	Nick string
	// ChainIndices are the generator slots this room feeds. The first entry
	// is the primary chain used for generation and word counts; 0 is always present.
	ChainIndices []int

	lastFired map[string]time.Time
}

func newRoom(addr jid.JID, nick string, indices []int) *Room {
	return &Room{
		Address:      addr,
		Nick:         nick,
		ChainIndices: indices,
		lastFired:    make(map[string]time.Time),
	}
}

func (r *Room) Key() Key {
	return Key{Local: r.Address.Localpart(), Domain: r.Address.Domainpart()}
}

// Primary returns the chain used for generation and vocabulary counts.
func (r *Room) Primary() int {
	return r.ChainIndices[0]
}

// LastFired returns when category last fired here; the zero time means never.
func (r *Room) LastFired(category string) time.Time {
	return r.lastFired[category]
}

// MarkFired records a category firing at t.
func (r *Room) MarkFired(category string, t time.Time) {
	r.lastFired[category] = t
}

// Occupant is the full address the bot joins as: room@domain/nick.
func (r *Room) Occupant() (jid.JID, error) {
	return r.Address.WithResource(r.Nick)
}
