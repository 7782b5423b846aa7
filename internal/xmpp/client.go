// Package xmpp connects the router to an XMPP server: it owns the stream,
// reconnects when it drops, and turns stanzas into bot events.
package xmpp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"

	goxmpp "github.com/mattn/go-xmpp"
	"github.com/rs/zerolog/log"
	"mellium.im/xmpp/jid"

	"github.com/keshon/ash/internal/bot"
	"github.com/keshon/ash/pkg/retrylimit"
)

var ErrNotConnected = errors.New("xmpp: not connected")

type Config struct {
	JID      string
	Password string
	Host     string
	Resource string
	Debug    bool
}

// Client keeps one XMPP session alive. Join and SendGroupMessage may be called
// from any goroutine; they fail with ErrNotConnected between sessions.
type Client struct {
	opts  goxmpp.Options
	retry retrylimit.Config
	dial  func(goxmpp.Options) (stream, error)

	mu   sync.Mutex
	conn stream
}

// stream is the part of *goxmpp.Client the adapter uses.
type stream interface {
	Recv() (any, error)
	Send(goxmpp.Chat) (int, error)
	JoinMUCNoHistory(jid, nick string) (int, error)
	Close() error
}

func NewClient(cfg Config) (*Client, error) {
	account, err := jid.Parse(cfg.JID)
	if err != nil {
		return nil, fmt.Errorf("invalid account jid: %w", err)
	}
	host := cfg.Host
	if host == "" {
		host = account.Domainpart() + ":5222"
	}

	return &Client{
		opts: goxmpp.Options{
			Host:     host,
			User:     account.Bare().String(),
			Password: cfg.Password,
			Resource: cfg.Resource,
			NoTLS:    true,
			StartTLS: true,
			TLSConfig: &tls.Config{
				ServerName: account.Domainpart(),
				MinVersion: tls.VersionTLS12,
			},
			Debug: cfg.Debug,
		},
		retry: retrylimit.DefaultConfig(),
		dial: func(o goxmpp.Options) (stream, error) {
			c, err := o.NewClient()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}, nil
}

// Run connects, emits SessionEstablished, then forwards inbound messages until
// the stream breaks, and starts over. It returns when ctx is done or the
// server rejects the credentials. events is closed on return.
func (c *Client) Run(ctx context.Context, events chan<- bot.Event) error {
	defer close(events)

	for {
		conn, err := c.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case events <- bot.SessionEstablished{}:
		case <-ctx.Done():
			c.drop(conn)
			return nil
		}

		err = c.receive(ctx, conn, events)
		c.drop(conn)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().Err(err).Str("component", "xmpp").Msg("stream lost, reconnecting")
	}
}

func (c *Client) connect(ctx context.Context) (stream, error) {
	var conn stream
	err := retrylimit.Do(ctx, func(context.Context) error {
		var err error
		conn, err = c.dial(c.opts)
		if err != nil {
			if isAuthFailure(err) {
				return retrylimit.Fatal(err)
			}
			return err
		}
		return nil
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("xmpp connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	log.Info().Str("component", "xmpp").Str("jid", c.opts.User).Str("host", c.opts.Host).Msg("session established")
	return conn, nil
}

// receive blocks in Recv, so a watcher closes the stream when ctx ends.
func (c *Client) receive(ctx context.Context, conn stream, events chan<- bot.Event) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		st, err := conn.Recv()
		if err != nil {
			return err
		}
		ev, ok := toEvent(st)
		if !ok {
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) drop(conn stream) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
}

func (c *Client) current() (stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

// Join enters room as nick, asking the room for zero history stanzas.
func (c *Client) Join(_ context.Context, room, nick string) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	if _, err := conn.JoinMUCNoHistory(room, nick); err != nil {
		return fmt.Errorf("join %s: %w", room, err)
	}
	return nil
}

// SendGroupMessage posts body to the room's bare address.
func (c *Client) SendGroupMessage(_ context.Context, room, body string) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	if _, err := conn.Send(goxmpp.Chat{Remote: room, Type: "groupchat", Text: body}); err != nil {
		return fmt.Errorf("send to %s: %w", room, err)
	}
	return nil
}

// toEvent keeps message stanzas only.
func toEvent(st any) (bot.Event, bool) {
	switch v := st.(type) {
	case goxmpp.Chat:
		return bot.ChatMessage{From: v.Remote, Body: v.Text, IsError: v.Type == "error"}, true
	case *goxmpp.Chat:
		return bot.ChatMessage{From: v.Remote, Body: v.Text, IsError: v.Type == "error"}, true
	default:
		return nil, false
	}
}

func isAuthFailure(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "auth failure")
}
