package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/keshon/ash/internal/bot"
	"github.com/keshon/ash/internal/chain"
	"github.com/keshon/ash/internal/config"
	"github.com/keshon/ash/internal/corpus"
	"github.com/keshon/ash/internal/logging"
	"github.com/keshon/ash/internal/random"
	"github.com/keshon/ash/internal/replay"
	"github.com/keshon/ash/internal/room"
	"github.com/keshon/ash/internal/storage"
	"github.com/keshon/ash/internal/trigger"
	"github.com/keshon/ash/internal/xmpp"
	"github.com/keshon/ash/pkg/retrylimit"
)

const outboxSize = 64

// app is everything built from the config before any network I/O.
type app struct {
	rooms     *room.Registry
	pool      *chain.Pool
	store     storage.Log
	responder *bot.Responder
}

func build(ctx context.Context, cfg *config.Config) (*app, error) {
	jokes, err := corpus.Load(cfg.JokesFile)
	if err != nil {
		return nil, err
	}
	cats, err := trigger.Apply(trigger.DefaultCategories(), overrides(cfg.Triggers))
	if err != nil {
		return nil, err
	}
	rooms, err := room.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	src := random.New(time.Now().UnixNano())
	pool := chain.NewPool(rooms.PoolSize(), func(int) chain.Generator { return chain.NewMarkov(src) })

	store, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if _, err := replay.Run(ctx, store, rooms, pool); err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		rooms: rooms,
		pool:  pool,
		store: store,
		responder: &bot.Responder{
			Pool:       pool,
			Corpus:     jokes,
			Categories: cats,
			Rand:       src,
			Now:        time.Now,
		},
	}, nil
}

func overrides(in map[string]config.TriggerConfig) map[string]trigger.Override {
	out := make(map[string]trigger.Override, len(in))
	for name, t := range in {
		out[name] = trigger.Override{
			Match:       t.Match,
			MinInterval: t.MinInterval(),
			Probability: t.Probability,
		}
	}
	return out
}

func run(ctx context.Context, cfg *config.Config) error {
	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().Str("version", Version).Str("config", cfg.Path).Msgf("Starting %s bot...", appName)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer a.store.Close()

	client, err := xmpp.NewClient(xmpp.Config{
		JID:      cfg.JID,
		Password: cfg.Password,
		Host:     cfg.Host,
		Resource: cfg.Resource,
		Debug:    cfg.LogLevel == "trace",
	})
	if err != nil {
		return err
	}

	limit := rate.Limit(cfg.SendRate)
	outbox := bot.NewOutbox(client, retrylimit.NewAdaptiveLimiter(limit, limit/10, limit, limit/10, 0.5), outboxSize)
	router := bot.NewRouter(bot.Options{
		Client:    client,
		Rooms:     a.rooms,
		Pool:      a.pool,
		Log:       a.store,
		Responder: a.responder,
		Outbox:    outbox,
	})

	events := make(chan bot.Event)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return client.Run(gctx, events) })
	g.Go(func() error { return outbox.Run(gctx) })
	g.Go(func() error { return router.Run(gctx, events) })

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msgf("%s exited cleanly", appName)
	return nil
}
