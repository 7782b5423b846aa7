// Package randomtest provides a scripted random.Source for deterministic tests.
package randomtest

import "sync"

// Scripted replays fixed draws. Once a queue runs dry, Float64 returns 0.999
// (nothing fires) and Intn returns 0.
type Scripted struct {
	mu     sync.Mutex
	floats []float64
	ints   []int

	FloatCalls int
	IntCalls   int
}

// New returns a source that yields floats in order.
func New(floats ...float64) *Scripted {
	return &Scripted{floats: floats}
}

// WithInts queues Intn results.
func (s *Scripted) WithInts(ints ...int) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = append(s.ints, ints...)
	return s
}

// PushFloats queues more Float64 results.
func (s *Scripted) PushFloats(floats ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, floats...)
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FloatCalls++
	if len(s.floats) == 0 {
		return 0.999
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IntCalls++
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}
