// Package replay rebuilds generator state from the message log at startup.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ash/internal/chain"
	"github.com/keshon/ash/internal/room"
	"github.com/keshon/ash/internal/storage"
)

// FallbackChain receives messages from rooms no longer configured.
const FallbackChain = 0

// Stats summarises one replay.
type Stats struct {
	Messages int
	// Fallback counts messages from unknown rooms, fed to FallbackChain only.
	Fallback int
	Elapsed  time.Duration
}

// Run feeds every logged message, in log order, into the chains of its room.
// Messages from unknown rooms go to the fallback chain so nothing is lost.
// A scan error is returned as is; without the log there is nothing to bootstrap.
func Run(ctx context.Context, history storage.Scanner, rooms *room.Registry, pool *chain.Pool) (Stats, error) {
	var st Stats
	start := time.Now()

	err := history.Scan(ctx, func(m storage.Message) error {
		st.Messages++
		r, ok := rooms.Lookup(m.LocalPart, m.Domain)
		if !ok {
			st.Fallback++
			pool.Ingest(FallbackChain, m.Body)
			return nil
		}
		for _, idx := range r.ChainIndices {
			pool.Ingest(idx, m.Body)
		}
		return nil
	})
	st.Elapsed = time.Since(start)
	if err != nil {
		return st, fmt.Errorf("replay failed after %d messages: %w", st.Messages, err)
	}

	logReplay(st)
	return st, nil
}

func logReplay(st Stats) {
	log.Info().
		Str("component", "replay").
		Int("messages", st.Messages).
		Int("fallback", st.Fallback).
		Dur("elapsed", st.Elapsed).
		Msg("history replayed")
}
