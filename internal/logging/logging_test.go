package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	prev, lvl := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(lvl)
	})
}

func TestSetup_LevelFilters(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	c, err := Setup(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)
	defer c.Close()

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestSetup_BadLevel(t *testing.T) {
	restore(t)
	_, err := Setup(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestSetup_File(t *testing.T) {
	restore(t)
	path := filepath.Join(t.TempDir(), "ash.log")
	c, err := Setup(Options{File: path, Console: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Info().Str("room", "chat@example.org").Msg("joined")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"room":"chat@example.org"`)
	assert.Contains(t, string(data), `"message":"joined"`)
}
