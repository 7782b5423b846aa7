package bot

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ash/internal/chain"
	"github.com/keshon/ash/internal/corpus"
	"github.com/keshon/ash/internal/random"
	"github.com/keshon/ash/internal/room"
	"github.com/keshon/ash/internal/trigger"
)

// Responder computes at most one reply per message.
type Responder struct {
	Pool       *chain.Pool
	Corpus     *corpus.Corpus
	Categories []trigger.Category
	Rand       random.Source
	// Now must be monotonic; time.Now is.
	Now func() time.Time
}

// Respond classifies body as directed or ambient and returns the reply, if any.
// Ambient firing updates the room's cooldown for the winning category.
func (r *Responder) Respond(rm *room.Room, body string) (string, bool) {
	if text, ok := trigger.ParseDirected(body, rm.Nick); ok {
		return r.directed(rm, text)
	}
	return r.ambient(rm, body)
}

func (r *Responder) directed(rm *room.Room, text string) (string, bool) {
	switch trigger.ResolveCommand(text) {
	case trigger.CommandCorrection:
		return corpus.Correction, true
	case trigger.CommandJoke:
		return r.Corpus.Joke(r.Rand)
	case trigger.CommandRepo:
		return corpus.RepoURL, true
	case trigger.CommandWords:
		return corpus.WordsReply(r.Pool.WordCount(rm.Primary())), true
	default:
		return r.Pool.Generate(rm.Primary(), text)
	}
}

func (r *Responder) ambient(rm *room.Room, body string) (string, bool) {
	now := r.Now()
	for _, c := range r.Categories {
		if !trigger.Gate(c, body, rm.LastFired(c.Name), now, r.Rand) {
			continue
		}
		rm.MarkFired(c.Name, now)
		log.Debug().Str("room", rm.Address.String()).Str("category", c.Name).Msg("ambient trigger fired")

		switch c.Kind {
		case trigger.KindCorrection:
			return corpus.Correction, true
		case trigger.KindJoke:
			return r.Corpus.Joke(r.Rand)
		default:
			if random.Chance(r.Rand, 0.5) {
				return r.Corpus.Joke(r.Rand)
			}
			return r.Pool.Generate(rm.Primary(), body)
		}
	}
	return "", false
}
