// /internal/storage/storage.go
package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// Message is one logged inbound room message. It is the only durable state;
// generator contents are rebuilt from it on every start.
type Message struct {
	LocalPart string `json:"node"`
	Domain    string `json:"domain"`
	Nick      string `json:"nick"`
	Body      string `json:"msg"`
}

// Appender persists one message. A failure affects only that message.
type Appender interface {
	Append(ctx context.Context, m Message) error
}

// Scanner walks every message in insertion order until fn returns an error.
type Scanner interface {
	Scan(ctx context.Context, fn func(Message) error) error
}

// Log is the append-only message log.
type Log interface {
	Appender
	Scanner
	Close() error
}

// Open picks the backend from the file extension: ".json" uses the JSON
// datastore, anything else SQLite.
func Open(ctx context.Context, path string) (Log, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSON(path)
	}
	return NewSQLite(ctx, path)
}
