// Package chain holds the generator pool: independent text generators
// addressed by small integer index. Rooms feed and read the slots they are
// bound to; slots are never merged.
package chain

// Generator learns from text and produces text.
type Generator interface {
	// Ingest learns from text. Any input is accepted.
	Ingest(text string)
	// Generate returns an utterance seeded by seed, or ok=false when the
	// model has nothing to say.
	Generate(seed string) (text string, ok bool)
	// WordCount is the size of the learned vocabulary.
	WordCount() int
}

// Factory builds the generator for slot index.
type Factory func(index int) Generator

// Pool is an arena of generators. It does no locking: a single goroutine
// owns it once the session starts.
type Pool struct {
	slots []Generator
}

// NewPool allocates size slots; size below one is raised to one so slot 0 always exists.
func NewPool(size int, factory Factory) *Pool {
	size = max(size, 1)
	p := &Pool{slots: make([]Generator, size)}
	for i := range p.slots {
		p.slots[i] = factory(i)
	}
	return p
}

func (p *Pool) Size() int { return len(p.slots) }

// Ingest feeds text into one slot. Out-of-range indices are ignored.
func (p *Pool) Ingest(index int, text string) {
	if g := p.slot(index); g != nil {
		g.Ingest(text)
	}
}

// Generate asks one slot for an utterance.
func (p *Pool) Generate(index int, seed string) (string, bool) {
	if g := p.slot(index); g != nil {
		return g.Generate(seed)
	}
	return "", false
}

// WordCount reports one slot's vocabulary size.
func (p *Pool) WordCount(index int) int {
	if g := p.slot(index); g != nil {
		return g.WordCount()
	}
	return 0
}

func (p *Pool) slot(index int) Generator {
	if index < 0 || index >= len(p.slots) {
		return nil
	}
	return p.slots[index]
}
