package store

import (
	"context"
	"sync"

	"github.com/pysugar/account-tabs/internal/db/models"
)

// MemoryStore keeps the document in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	doc models.Document
}

// NewMemoryStore returns a store seeded with doc, or an empty document when nil.
func NewMemoryStore(doc models.Document) *MemoryStore {
	if doc == nil {
		doc = models.NewDocument()
	}
	return &MemoryStore{doc: doc.Clone().Normalize()}
}

func (s *MemoryStore) Read(_ context.Context) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

func (s *MemoryStore) Write(_ context.Context, doc models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone().Normalize()
	return nil
}
