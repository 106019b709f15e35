package utils

import (
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// GenerateID returns a fresh connection-scoped identifier.
func GenerateID() string {
	return uuid.NewString()
}

// Source is the only randomness the simulation consumes.
// Float64 must return a value in [0, 1).
// *rand.Rand satisfies it directly.
type Source interface {
	Float64() float64
}

// NewSource returns a Source seeded with seed.
func NewSource(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

// lockedSource guards a *rand.Rand, which is not safe for concurrent use.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Uniform draws a value in [min, max) from src.
func Uniform(src Source, min, max float64) float64 {
	return min + src.Float64()*(max-min)
}

// UniformInt draws floor(Uniform(min, max)).
func UniformInt(src Source, min, max float64) int {
	return int(math.Floor(Uniform(src, min, max)))
}

// Sequence replays a fixed list of draws in a loop. Replays and tests use it
// to pin the simulation to known values.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence builds a Sequence. With no values it always returns 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next scripted value.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws reports how many values have been consumed so far.
func (s *Sequence) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
