// Package random is the single randomness source behind every probabilistic
// decision the bot makes: trigger draws, joke selection and text generation.
package random

import (
	"math/rand"
)

// Source yields uniform draws. *rand.Rand satisfies it.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// Float64 returns a number in [0,1).
	Float64() float64
	// Intn returns a number in [0,n).
	Intn(n int) int
}

// New returns a seeded math/rand source.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Chance reports whether a uniform draw falls below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Choose picks one element uniformly. ok is false for an empty slice.
func Choose[T any](src Source, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[src.Intn(len(items))], true
}
