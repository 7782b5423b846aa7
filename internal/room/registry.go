package room

import (
	"fmt"

	"mellium.im/xmpp/jid"

	"github.com/keshon/ash/internal/config"
)

// Registry indexes rooms by address. It is built once at startup and never
// shrinks or grows afterwards.
type Registry struct {
	rooms    []*Room
	byKey    map[Key]*Room
	poolSize int
}

// NewRegistry builds the registry from configuration. Any room without a local
// part, or an empty room list, is an error the caller should treat as fatal.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	if len(cfg.Rooms) == 0 {
		return nil, config.ErrNoRooms
	}

	reg := &Registry{
		rooms: make([]*Room, 0, len(cfg.Rooms)),
		byKey: make(map[Key]*Room, len(cfg.Rooms)),
	}

	maxIdx := 0
	for _, rc := range cfg.Rooms {
		addr, err := jid.Parse(rc.Room)
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", rc.Room, err)
		}
		if addr.Localpart() == "" {
			return nil, fmt.Errorf("room %q: %w", rc.Room, config.ErrNoLocalPart)
		}

		indices, err := NormalizeChains(rc.ChainIndices)
		if err != nil {
			return nil, fmt.Errorf("room %q: %w", rc.Room, err)
		}
		for _, idx := range indices {
			maxIdx = max(maxIdx, idx)
		}

		r := newRoom(addr.Bare(), ResolveNick(rc.Nick, cfg.Nick, cfg.AccountLocal()), indices)
		if prev, dup := reg.byKey[r.Key()]; dup {
			// later entries for the same address win
			for i := range reg.rooms {
				if reg.rooms[i] == prev {
					reg.rooms[i] = r
				}
			}
		} else {
			reg.rooms = append(reg.rooms, r)
		}
		reg.byKey[r.Key()] = r
	}
	reg.poolSize = maxIdx + 1

	return reg, nil
}

// ResolveNick picks the first non-empty candidate, falling back to DefaultNick.
func ResolveNick(candidates ...string) string {
	for _, n := range candidates {
		if n != "" {
			return n
		}
	}
	return DefaultNick
}

// NormalizeChains dedupes indices keeping first occurrences and appends 0 if
// missing. Nil or empty input yields [0].
func NormalizeChains(indices []int) ([]int, error) {
	out := make([]int, 0, len(indices)+1)
	seen := make(map[int]bool, len(indices)+1)
	for _, idx := range indices {
		if idx < 0 {
			return nil, config.ErrChainIndex
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	if !seen[0] {
		out = append(out, 0)
	}
	return out, nil
}

// Lookup finds a room by address parts. Parts are compared as given, so
// callers should pass values produced by jid parsing.
func (reg *Registry) Lookup(local, domain string) (*Room, bool) {
	r, ok := reg.byKey[Key{Local: local, Domain: domain}]
	return r, ok
}

// Rooms returns the rooms in configuration order.
func (reg *Registry) Rooms() []*Room {
	return reg.rooms
}

// PoolSize is one more than the highest chain index referenced by any room.
func (reg *Registry) PoolSize() int {
	return reg.poolSize
}
