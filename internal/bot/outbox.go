package bot

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ash/pkg/retrylimit"
)

type outgoing struct {
	room string
	body string
}

// Outbox delivers replies on its own goroutine in FIFO order, so a slow or
// failing send never holds up the router. Order within a room is the order
// of Enqueue calls.
type Outbox struct {
	client  Client
	limiter *retrylimit.AdaptiveLimiter
	queue   chan outgoing
}

// NewOutbox creates an outbox with room for size pending replies.
func NewOutbox(client Client, limiter *retrylimit.AdaptiveLimiter, size int) *Outbox {
	return &Outbox{
		client:  client,
		limiter: limiter,
		queue:   make(chan outgoing, max(size, 1)),
	}
}

// Enqueue hands a reply over for delivery. It blocks only while the queue is full.
func (o *Outbox) Enqueue(ctx context.Context, room, body string) error {
	select {
	case o.queue <- outgoing{room: room, body: body}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run delivers queued replies until ctx is done. Failures are logged and dropped.
func (o *Outbox) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-o.queue:
			if err := o.limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := o.client.SendGroupMessage(ctx, m.room, m.body); err != nil {
				o.limiter.Failure()
				log.Error().Err(err).Str("room", m.room).Msg("failed to deliver reply")
				continue
			}
			o.limiter.Success()
		}
	}
}
