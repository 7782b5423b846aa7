package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var sample = []Message{
	{LocalPart: "chat", Domain: "example.org", Nick: "alice", Body: "ash: repo"},
	{LocalPart: "chat", Domain: "example.org", Nick: "bob", Body: "hello there"},
	{LocalPart: "dev", Domain: "conference.example.org", Nick: "carol", Body: "multi\nline ☃"},
}

func collect(t *testing.T, l Scanner) []Message {
	t.Helper()
	var out []Message
	require.NoError(t, l.Scan(context.Background(), func(m Message) error {
		out = append(out, m)
		return nil
	}))
	return out
}

func testBackend(t *testing.T, path string) {
	ctx := context.Background()

	l, err := Open(ctx, path)
	require.NoError(t, err)
	require.Empty(t, collect(t, l), "a new log is empty")

	for _, m := range sample {
		require.NoError(t, l.Append(ctx, m))
	}
	require.Equal(t, sample, collect(t, l), "scan returns insertion order")
	require.NoError(t, l.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, sample, collect(t, reopened), "messages survive reopen")

	stop := errors.New("stop")
	var seen int
	err = reopened.Scan(ctx, func(Message) error {
		seen++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, seen, "scan stops at the first callback error")
}

func TestSQLite(t *testing.T) {
	testBackend(t, filepath.Join(t.TempDir(), "nested", "ash.db"))
}

func TestJSON(t *testing.T) {
	testBackend(t, filepath.Join(t.TempDir(), "ash.json"))
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	l, err := Open(ctx, filepath.Join(t.TempDir(), "log.JSON"))
	require.NoError(t, err)
	require.IsType(t, &JSON{}, l)
	require.NoError(t, l.Close())

	l, err = Open(ctx, filepath.Join(t.TempDir(), "log.sqlite"))
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, l)
	require.NoError(t, l.Close())
}
