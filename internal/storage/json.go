package storage

import (
	"context"
	"encoding/json"
	"fmt"
	stdlog "log"
	"sync"

	"github.com/keshon/datastore"
	"github.com/rs/zerolog/log"
)

const messagesKey = "messages"

// JSON keeps the log in a datastore file. Every append is flushed with the
// datastore's atomic write, so the file on disk is always a whole document.
// Suited to small deployments: each append rewrites the file.
type JSON struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

func NewJSON(path string) (*JSON, error) {
	cfg := datastore.DefaultConfig(path)
	cfg.BackupCount = 0
	cfg.Logger = stdlog.New(log.With().Str("component", "datastore").Logger(), "", 0)

	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &JSON{ds: ds}, nil
}

// messages decodes the stored list. Values read back from disk are generic
// JSON, so they go through a marshal round trip.
func (j *JSON) messages() ([]Message, error) {
	data, exists := j.ds.Get(messagesKey)
	if !exists || data == nil {
		return nil, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}
	var out []Message
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("error unmarshalling messages: %w", err)
	}
	return out, nil
}

func (j *JSON) Append(_ context.Context, m Message) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	msgs, err := j.messages()
	if err != nil {
		return err
	}
	msgs = append(msgs, m)
	j.ds.Add(messagesKey, msgs)
	if stored, _ := j.ds.Get(messagesKey); !sameLen(stored, len(msgs)) {
		return fmt.Errorf("failed to append message: rejected by datastore memory limit")
	}
	if err := j.ds.SaveToFile(); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (j *JSON) Scan(ctx context.Context, fn func(Message) error) error {
	j.mu.Lock()
	msgs, err := j.messages()
	j.mu.Unlock()
	if err != nil {
		return err
	}

	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

func (j *JSON) Close() error {
	return j.ds.Close()
}

func sameLen(v any, n int) bool {
	msgs, ok := v.([]Message)
	return ok && len(msgs) == n
}
