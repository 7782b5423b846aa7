package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed struct {
	f float64
	i int
}

func (s fixed) Float64() float64 { return s.f }
func (s fixed) Intn(n int) int   { return s.i % n }

func TestChance(t *testing.T) {
	assert.True(t, Chance(fixed{f: 0.1}, 0.5))
	assert.False(t, Chance(fixed{f: 0.5}, 0.5), "draw equal to p must not fire")
	assert.False(t, Chance(fixed{f: 0}, 0), "zero probability never fires")
	assert.True(t, Chance(fixed{f: 0.999}, 1))
}

func TestChoose(t *testing.T) {
	_, ok := Choose[string](fixed{}, nil)
	require.False(t, ok)

	got, ok := Choose(fixed{i: 2}, []string{"a", "b", "c"})
	require.True(t, ok)
	require.Equal(t, "c", got)
}

func TestNew_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for range 10 {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}
