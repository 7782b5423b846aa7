package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ash/internal/random/randomtest"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Greater(t, len(c.Jokes), 100)
	for _, j := range c.Jokes {
		require.Equal(t, strings.TrimSpace(j), j)
		require.NotEmpty(t, j)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jokes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jokes:\n  - one\n  - \"  \"\n  - |\n    two\n    lines\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two\nlines"}, c.Jokes)

	j, ok := c.Joke(randomtest.New().WithInts(1))
	require.True(t, ok)
	assert.Equal(t, "two\nlines", j)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jokes: []\n"), 0o600))
	_, err = Load(path)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestWordsReply(t *testing.T) {
	assert.Equal(t, "I know 0 words!", WordsReply(0))
	assert.Equal(t, "I know 1234 words!", WordsReply(1234))
}
