package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps documents in memory. Useful for development, tests, and
// single-process deployments where durability does not matter.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

// Get retrieves a document by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// Put stores a document.
func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// List returns documents newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		copied := *doc
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
