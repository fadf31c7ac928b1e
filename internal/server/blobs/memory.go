package blobs

import (
	"bytes"
	"context"
	"sync"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/google/uuid"
)

type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, data []byte, _ Meta) (string, error) {
	ref := uuid.NewString()

	s.mu.Lock()
	s.objects[ref] = bytes.Clone(data)
	s.mu.Unlock()
	return ref, nil
}

func (s *MemoryStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[ref]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return bytes.Clone(data), nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	delete(s.objects, ref)
	s.mu.Unlock()
	return nil
}

// Len reports how many objects are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
