package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ash/internal/random/randomtest"
)

func TestParseDirected(t *testing.T) {
	tests := []struct {
		body     string
		nick     string
		want     string
		directed bool
	}{
		{"ash: repo", "ash", "repo", true},
		{"ash, words", "ash", "words", true},
		{"ASH: Hello There", "ash", "Hello There", true},
		{"ash hello", "ash", "hello", true},
		{"ash", "ash", "", true},
		{"ash:   spaced out  ", "ash", "spaced out", true},
		{"ash,: double", "ash", "double", true},
		{"ashley: hi", "ash", "", false},
		{"hey ash", "ash", "", false},
		{"as", "ash", "", false},
		{"", "ash", "", false},
		{"anything", "", "", false},
		{"Ünï: hi", "ünï", "hi", true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, ok := ParseDirected(tt.body, tt.nick)
			require.Equal(t, tt.directed, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCommand(t *testing.T) {
	tests := map[string]Command{
		"jabber":          CommandCorrection,
		" JABBER ":        CommandCorrection,
		"dad":             CommandJoke,
		"repo":            CommandRepo,
		"Code":            CommandRepo,
		"words":           CommandWords,
		"words please":    CommandNone,
		"tell me a story": CommandNone,
		"":                CommandNone,
	}
	for text, want := range tests {
		assert.Equal(t, want, ResolveCommand(text), "text %q", text)
	}
}

func TestGate(t *testing.T) {
	now := time.Now()
	jabber := DefaultCategories()[0]

	t.Run("fires when all conditions pass", func(t *testing.T) {
		src := randomtest.New(0.1)
		require.True(t, Gate(jabber, "I use Jabber daily", time.Time{}, now, src))
	})

	t.Run("draw above probability does not fire", func(t *testing.T) {
		src := randomtest.New(0.7)
		require.False(t, Gate(jabber, "jabber", time.Time{}, now, src))
	})

	t.Run("cooldown blocks without consuming a draw", func(t *testing.T) {
		src := randomtest.New(0.1)
		require.False(t, Gate(jabber, "jabber", now.Add(-119*time.Second), now, src))
		require.Zero(t, src.FloatCalls)
	})

	t.Run("cooldown elapsed exactly", func(t *testing.T) {
		src := randomtest.New(0.1)
		require.True(t, Gate(jabber, "jabber", now.Add(-120*time.Second), now, src))
	})

	t.Run("substring mismatch blocks without consuming a draw", func(t *testing.T) {
		src := randomtest.New(0.1)
		require.False(t, Gate(jabber, "xmpp is great", time.Time{}, now, src))
		require.Zero(t, src.FloatCalls)
	})

	t.Run("empty match accepts any body", func(t *testing.T) {
		src := randomtest.New(0.1)
		require.True(t, Gate(DefaultCategories()[1], "whatever", time.Time{}, now, src))
	})
}

func TestDefaultCategories_Order(t *testing.T) {
	cats := DefaultCategories()
	require.Len(t, cats, 3)
	assert.Equal(t, []string{Jabber, Dad, Random}, []string{cats[0].Name, cats[1].Name, cats[2].Name})
	assert.Equal(t, KindCorrection, cats[0].Kind)
	assert.Equal(t, KindJoke, cats[1].Kind)
	assert.Equal(t, KindChatter, cats[2].Kind)
	assert.Empty(t, cats[1].Match)
	assert.Empty(t, cats[2].Match)
}

func TestApply(t *testing.T) {
	match := "dad"
	interval := 10 * time.Second
	p := 0.25

	cats, err := Apply(DefaultCategories(), map[string]Override{
		Dad: {Match: &match, MinInterval: &interval, Probability: &p},
	})
	require.NoError(t, err)
	assert.Equal(t, "dad", cats[1].Match)
	assert.Equal(t, interval, cats[1].MinInterval)
	assert.Equal(t, 0.25, cats[1].Probability)
	assert.Empty(t, DefaultCategories()[1].Match, "defaults must not be mutated")

	_, err = Apply(DefaultCategories(), map[string]Override{"nope": {}})
	require.Error(t, err)

	bad := 1.5
	_, err = Apply(DefaultCategories(), map[string]Override{Random: {Probability: &bad}})
	require.Error(t, err)
}
