package chain

import (
	"strings"

	"github.com/keshon/ash/internal/random"
)

// boundary marks both the start of a message (as a state) and its end (as a
// successor). strings.Fields never yields an empty token, so it cannot collide.
const boundary = ""

// DefaultMaxWords caps generated utterances.
const DefaultMaxWords = 40

// successors counts the tokens seen after one state. Slices keep insertion
// order so sampling with a seeded source is reproducible.
type successors struct {
	words  []string
	counts []int
	index  map[string]int
	total  int
}

func (s *successors) add(word string) {
	if i, ok := s.index[word]; ok {
		s.counts[i]++
	} else {
		s.index[word] = len(s.words)
		s.words = append(s.words, word)
		s.counts = append(s.counts, 1)
	}
	s.total++
}

func (s *successors) pick(src random.Source) string {
	n := src.Intn(s.total)
	for i, c := range s.counts {
		if n < c {
			return s.words[i]
		}
		n -= c
	}
	return boundary
}

// Markov is a first-order word chain.
type Markov struct {
	states   map[string]*successors
	src      random.Source
	MaxWords int
}

// NewMarkov returns an empty chain sampling from src.
func NewMarkov(src random.Source) *Markov {
	return &Markov{
		states:   make(map[string]*successors),
		src:      src,
		MaxWords: DefaultMaxWords,
	}
}

func (m *Markov) Ingest(text string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}
	prev := boundary
	for _, w := range words {
		m.next(prev).add(w)
		prev = w
	}
	m.next(prev).add(boundary)
}

func (m *Markov) next(state string) *successors {
	s, ok := m.states[state]
	if !ok {
		s = &successors{index: make(map[string]int)}
		m.states[state] = s
	}
	return s
}

// Generate walks the chain. It starts from a seed word the chain knows, picked
// at random, and from a message start otherwise.
func (m *Markov) Generate(seed string) (string, bool) {
	if _, ok := m.states[boundary]; !ok {
		return "", false
	}

	var known []string
	for _, w := range strings.Fields(seed) {
		if _, ok := m.states[w]; ok {
			known = append(known, w)
		}
	}

	var out []string
	state := boundary
	if w, ok := random.Choose(m.src, known); ok {
		out = append(out, w)
		state = w
	}

	for len(out) < m.MaxWords {
		s, ok := m.states[state]
		if !ok {
			break
		}
		w := s.pick(m.src)
		if w == boundary {
			break
		}
		out = append(out, w)
		state = w
	}

	if len(out) == 0 {
		return "", false
	}
	return strings.Join(out, " "), true
}

// WordCount is the number of distinct words learned.
func (m *Markov) WordCount() int {
	n := len(m.states)
	if _, ok := m.states[boundary]; ok {
		n--
	}
	return n
}
