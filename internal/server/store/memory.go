package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/google/uuid"
)

// MemoryEntryStore keeps entries in process memory. Data is lost on restart.
type MemoryEntryStore struct {
	mu       sync.RWMutex
	entries  map[string]*models.Entry
	byIntent map[string]string
	seq      map[string]int64
	next     int64
	now      func() time.Time
}

func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{
		entries:  make(map[string]*models.Entry),
		byIntent: make(map[string]string),
		seq:      make(map[string]int64),
		now:      time.Now,
	}
}

func (s *MemoryEntryStore) Create(_ context.Context, e *models.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byIntent[e.PaymentIntentID]; ok {
		return "", common.ErrAlreadySubmitted
	}

	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()

	s.next++
	s.entries[e.ID] = clone(e)
	s.byIntent[e.PaymentIntentID] = e.ID
	s.seq[e.ID] = s.next
	return e.ID, nil
}

func (s *MemoryEntryStore) FindByID(_ context.Context, id string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(e), nil
}

func (s *MemoryEntryStore) FindByPaymentIntent(_ context.Context, paymentIntentID string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byIntent[paymentIntentID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(s.entries[id]), nil
}

func (s *MemoryEntryStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*models.Entry{}
	for _, e := range s.entries {
		if e.OwnerID == ownerID {
			result = append(result, e.WithoutPayload())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return s.seq[result[i].ID] > s.seq[result[j].ID]
	})
	return result, nil
}

func (s *MemoryEntryStore) UpdatePaymentStatus(_ context.Context, paymentIntentID string, status models.PaymentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byIntent[paymentIntentID]
	if !ok {
		return false, nil
	}
	e := s.entries[id]
	if e.PaymentStatus == models.PaymentFailed || e.PaymentStatus == status {
		return false, nil
	}
	e.PaymentStatus = status
	return true, nil
}

func (s *MemoryEntryStore) DeleteOwned(_ context.Context, id, ownerID string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if e.OwnerID != ownerID {
		return nil, common.ErrorUnauthorized
	}
	delete(s.entries, id)
	delete(s.byIntent, e.PaymentIntentID)
	delete(s.seq, id)
	return e, nil
}

func clone(e *models.Entry) *models.Entry {
	c := *e
	if e.File != nil {
		f := *e.File
		f.Data = bytes.Clone(e.File.Data)
		c.File = &f
	}
	return &c
}

// MemoryEventLog is the in-memory EventLog.
type MemoryEventLog struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{seen: make(map[string]struct{})}
}

func (l *MemoryEventLog) Record(_ context.Context, eventID, _, _ string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[eventID]; ok {
		return false, nil
	}
	l.seen[eventID] = struct{}{}
	return true, nil
}
