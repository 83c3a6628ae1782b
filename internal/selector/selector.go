// Package selector picks one message uniformly at random.
package selector

import (
	"math/rand/v2"
	"sync"

	"github.com/and161185/motd/internal/model"
)

// Selector is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand // nil means the runtime's global generator
}

// New returns a Selector drawing from src. A nil src uses the global generator.
func New(src rand.Source) *Selector {
	if src == nil {
		return &Selector{}
	}
	return &Selector{rng: rand.New(src)}
}

// Pick returns one of msgs with probability 1/len(msgs).
// It returns false when msgs is empty.
func (s *Selector) Pick(msgs []model.Message) (model.Message, bool) {
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	return msgs[s.intN(len(msgs))], true
}

func (s *Selector) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
