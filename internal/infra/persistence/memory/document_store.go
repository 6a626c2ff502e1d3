// Package memory keeps owner documents in process memory. Data is lost on restart.
package memory

import (
	"context"
	"sync"

	"lessonradar/internal/domain/repository"

	"github.com/google/uuid"
)

type documentKey struct {
	ownerID uuid.UUID
	key     repository.DocumentKey
}

// DocumentStore is a map-backed repository.DocumentStore.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[documentKey][]byte
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[documentKey][]byte)}
}

// Get returns a copy of the stored value.
func (s *DocumentStore) Get(ctx context.Context, ownerID uuid.UUID, key repository.DocumentKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[documentKey{ownerID, key}]
	if !ok {
		return nil, repository.ErrDocumentNotFound
	}

	return append([]byte(nil), value...), nil
}

// Set replaces the stored value with a copy of value.
func (s *DocumentStore) Set(ctx context.Context, ownerID uuid.UUID, key repository.DocumentKey, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[documentKey{ownerID, key}] = append([]byte(nil), value...)

	return nil
}
