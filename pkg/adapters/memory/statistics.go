package memory

import (
	"sync"

	"github.com/aretw0/savestate/pkg/document"
)

// Statistics implements ports.Statistics by keeping the last loaded block.
// Safe for concurrent use.
type Statistics struct {
	mu     sync.Mutex
	block  *document.Config
	resets int
}

// NewStatistics creates an empty sink.
func NewStatistics() *Statistics {
	return &Statistics{block: document.New()}
}

// Reset drops the held block.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.block = document.New()
	s.resets++
}

// Load stores a copy of block.
func (s *Statistics) Load(block *document.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.block = block.Clone()
}

// Block returns a copy of the held block.
func (s *Statistics) Block() *document.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.block.Clone()
}

// Resets returns how many times the sink was reset.
func (s *Statistics) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}

// Discard is a ports.Statistics that drops everything.
type Discard struct{}

func (Discard) Reset()                  {}
func (Discard) Load(_ *document.Config) {}
