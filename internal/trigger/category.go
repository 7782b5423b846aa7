// Package trigger decides whether the bot speaks. Directed messages always get
// an answer; everything else goes through probabilistic, cooldown-gated
// categories evaluated in a fixed priority order.
package trigger

import (
	"fmt"
	"strings"
	"time"

	"github.com/keshon/ash/internal/random"
)

// Kind selects what a fired category replies with.
type Kind int

const (
	// KindCorrection replies with the protocol-identity correction.
	KindCorrection Kind = iota
	// KindJoke replies with a random joke.
	KindJoke
	// KindChatter replies with a joke or generated text, 50/50.
	KindChatter
)

func (k Kind) String() string {
	switch k {
	case KindCorrection:
		return "correction"
	case KindJoke:
		return "joke"
	case KindChatter:
		return "chatter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Category is one ambient trigger with its static gate parameters.
type Category struct {
	Name        string
	Kind        Kind
	Match       string // empty matches every message
	MinInterval time.Duration
	Probability float64
}

// Category names, also used as keys for config overrides and room cooldowns.
const (
	Jabber = "jabber"
	Dad    = "dad"
	Random = "random"
)

// DefaultCategories returns the ambient categories in priority order.
func DefaultCategories() []Category {
	return []Category{
		{Name: Jabber, Kind: KindCorrection, Match: "jabber", MinInterval: 120 * time.Second, Probability: 0.5},
		{Name: Dad, Kind: KindJoke, MinInterval: 300 * time.Second, Probability: 0.5},
		{Name: Random, Kind: KindChatter, MinInterval: 300 * time.Second, Probability: 0.01},
	}
}

// Override replaces individual parameters of a named category. Nil fields keep the default.
type Override struct {
	Match       *string
	MinInterval *time.Duration
	Probability *float64
}

// Apply returns a copy of cats with overrides merged in. Priority order is unchanged.
func Apply(cats []Category, overrides map[string]Override) ([]Category, error) {
	out := make([]Category, len(cats))
	copy(out, cats)

	for name, o := range overrides {
		i := indexOf(out, name)
		if i < 0 {
			return nil, fmt.Errorf("unknown trigger category %q", name)
		}
		if o.Match != nil {
			out[i].Match = *o.Match
		}
		if o.MinInterval != nil {
			if *o.MinInterval < 0 {
				return nil, fmt.Errorf("trigger %q: negative min interval", name)
			}
			out[i].MinInterval = *o.MinInterval
		}
		if o.Probability != nil {
			p := *o.Probability
			if p < 0 || p > 1 {
				return nil, fmt.Errorf("trigger %q: probability %v outside [0,1]", name, p)
			}
			out[i].Probability = p
		}
	}
	return out, nil
}

func indexOf(cats []Category, name string) int {
	for i, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Gate reports whether c fires for body. The conditions are checked in order
// and short-circuit: interval, then substring, then the random draw, so a draw
// is consumed only when the first two pass. A zero last means never fired.
func Gate(c Category, body string, last, now time.Time, src random.Source) bool {
	if !last.IsZero() && now.Sub(last) < c.MinInterval {
		return false
	}
	if c.Match != "" && !strings.Contains(strings.ToLower(body), strings.ToLower(c.Match)) {
		return false
	}
	return random.Chance(src, c.Probability)
}
