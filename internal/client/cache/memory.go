package cache

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/common"
)

// MemoryStore keeps entries in process memory. Values are cloned on the
// way in and out so callers never share a *Task with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]map[string]Entry{}}
}

func cloneEntry(e Entry) Entry {
	return Entry{Task: e.Task.Clone(), Pending: e.Pending}
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.users[userID]))
	for _, e := range s.users[userID] {
		out = append(out, cloneEntry(e))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, userID, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[userID][id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := cloneEntry(e)
	return &cp, nil
}

func (s *MemoryStore) Put(ctx context.Context, userID string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.users[userID]
	if !ok {
		part = map[string]Entry{}
		s.users[userID] = part
	}
	part[e.Task.ID] = cloneEntry(e)
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, userID string, tasks []*models.Task) error {
	part := make(map[string]Entry, len(tasks))
	for _, t := range tasks {
		part[t.ID] = Entry{Task: t.Clone()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = part
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users[userID], id)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = map[string]map[string]Entry{}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
