package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ash/internal/storage"
)

func writeConfig(t *testing.T, db string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ash.toml")
	body := `jid = "ash@example.org"
password = "secret"
db = "` + db + `"

[triggers.random]
probability = 0.0

[[rooms]]
room = "one@conference.example.org"
chain_indices = [1]

[[rooms]]
room = "two@conference.example.org"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestStatsCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.json")
	ctx := context.Background()
	st, err := storage.Open(ctx, db)
	require.NoError(t, err)
	require.NoError(t, st.Append(ctx, storage.Message{LocalPart: "one", Domain: "conference.example.org", Nick: "bob", Body: "hello there world"}))
	require.NoError(t, st.Close())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"stats", writeConfig(t, db)})
	require.NoError(t, cmd.ExecuteContext(ctx))

	text := out.String()
	assert.Contains(t, text, "CHAIN")
	assert.Regexp(t, `(?m)^0\s+3\s+\[two@conference\.example\.org\]`, text)
	assert.Regexp(t, `(?m)^1\s+3\s+\[one@conference\.example\.org\]`, text)
}

func TestBuild_AppliesTriggerOverrides(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	cfg, err := loadConfig([]string{writeConfig(t, db)})
	require.NoError(t, err)

	a, err := build(context.Background(), cfg)
	require.NoError(t, err)
	defer a.store.Close()

	assert.Equal(t, 2, a.pool.Size())
	for _, c := range a.responder.Categories {
		if c.Name == "random" {
			assert.Zero(t, c.Probability)
		}
	}
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a.toml", "b.toml"})
	assert.Error(t, cmd.Execute())
}
