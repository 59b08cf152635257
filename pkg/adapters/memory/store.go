package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
)

// Store implements ports.SaveStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*document.Config
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*document.Config),
	}
}

// Save persists a copy of the document in memory.
func (s *Store) Save(ctx context.Context, id string, doc *document.Config) error {
	if id == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidSaveID)
	}
	copied := doc.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load retrieves a copy of the document, so callers can't mutate the stored one.
func (s *Store) Load(ctx context.Context, id string) (*document.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSaveNotFound
	}
	return doc.Clone(), nil
}

// Delete removes the save.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored save IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
