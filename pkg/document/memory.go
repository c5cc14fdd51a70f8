package document

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store, safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[int64]Document
}

// NewMemoryStore creates a store holding docs.
func NewMemoryStore(docs ...*Document) *MemoryStore {
	s := &MemoryStore{docs: make(map[int64]Document, len(docs))}
	for _, d := range docs {
		s.Put(d)
	}
	return s
}

// Put adds or replaces a document.
func (s *MemoryStore) Put(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
}

// Delete removes a document.
func (s *MemoryStore) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
}

// Get implements Store. The returned document is a copy.
func (s *MemoryStore) Get(_ context.Context, id int64) (*Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return &doc, nil
}
