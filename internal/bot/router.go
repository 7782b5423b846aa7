package bot

import (
	"context"

	"github.com/rs/zerolog/log"
	"mellium.im/xmpp/jid"

	"github.com/keshon/ash/internal/chain"
	"github.com/keshon/ash/internal/room"
	"github.com/keshon/ash/internal/storage"
)

// Router consumes events strictly one at a time. Rooms, cooldowns and the
// generator pool are touched only from the goroutine running Run, which is
// why none of them lock.
type Router struct {
	client    Client
	rooms     *room.Registry
	pool      *chain.Pool
	log       storage.Appender
	responder *Responder
	outbox    *Outbox
}

type Options struct {
	Client    Client
	Rooms     *room.Registry
	Pool      *chain.Pool
	Log       storage.Appender
	Responder *Responder
	Outbox    *Outbox
}

func NewRouter(opts Options) *Router {
	return &Router{
		client:    opts.Client,
		rooms:     opts.Rooms,
		pool:      opts.Pool,
		log:       opts.Log,
		responder: opts.Responder,
		outbox:    opts.Outbox,
	}
}

// Run handles events until the channel closes or ctx is done.
func (rt *Router) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			rt.Handle(ctx, ev)
		}
	}
}

// Handle processes a single event.
func (rt *Router) Handle(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case SessionEstablished:
		rt.joinAll(ctx)
	case ChatMessage:
		rt.handleMessage(ctx, e)
	}
}

func (rt *Router) joinAll(ctx context.Context) {
	for _, r := range rt.rooms.Rooms() {
		addr := r.Address.String()
		if err := rt.client.Join(ctx, addr, r.Nick); err != nil {
			log.Error().Err(err).Str("room", addr).Str("nick", r.Nick).Msg("failed to join room")
			continue
		}
		log.Info().Str("room", addr).Str("nick", r.Nick).Msg("joined room")
	}
}

func (rt *Router) handleMessage(ctx context.Context, m ChatMessage) {
	if m.IsError {
		log.Debug().Str("from", m.From).Msg("ignoring error message")
		return
	}
	if m.From == "" || m.Body == "" {
		log.Debug().Str("from", m.From).Msg("ignoring message without sender or body")
		return
	}

	from, err := jid.Parse(m.From)
	if err != nil {
		log.Debug().Err(err).Str("from", m.From).Msg("ignoring message with invalid sender")
		return
	}
	local, domain, nick := from.Localpart(), from.Domainpart(), from.Resourcepart()
	if local == "" || nick == "" {
		log.Debug().Str("from", m.From).Msg("ignoring message from non-occupant")
		return
	}

	r, ok := rt.rooms.Lookup(local, domain)
	if !ok {
		log.Info().Str("from", m.From).Msg("ignoring message from unknown room")
		return
	}
	if nick == r.Nick {
		log.Debug().Str("room", r.Address.String()).Msg("ignoring own message")
		return
	}

	addr := r.Address.String()
	log.Debug().Str("room", addr).Str("nick", nick).Str("body", m.Body).Msg("message")

	if reply, ok := rt.responder.Respond(r, m.Body); ok {
		log.Info().Str("room", addr).Str("reply", reply).Msg("reply")
		if err := rt.outbox.Enqueue(ctx, addr, reply); err != nil {
			log.Error().Err(err).Str("room", addr).Msg("failed to queue reply")
		}
	}

	err = rt.log.Append(ctx, storage.Message{LocalPart: local, Domain: domain, Nick: nick, Body: m.Body})
	if err != nil {
		log.Error().Err(err).Str("room", addr).Msg("failed to persist message")
	}

	for _, idx := range r.ChainIndices {
		rt.pool.Ingest(idx, m.Body)
	}
}
