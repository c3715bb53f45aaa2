package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yusimeilanyy/intern-project/model"
)

// MemoryStore is an in-memory DocumentStore. It backs development runs
// without a database and the handler/service tests. Documents are copied
// on the way in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*model.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*model.Document)}
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) FindAll(ctx context.Context, filter DocumentFilter) ([]*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if doc.MatchesCategory(filter.Category) {
			result = append(result, doc.Clone())
		}
	}
	// Newest first, matching the SQL store's ordering
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.docs, id)
	return nil
}

// Count returns the number of stored documents.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
