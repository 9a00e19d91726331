package rest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for Postgres so handler tests can run
// against the real services.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	tasks []*models.Task
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository             { return memUsers{m} }
func (m *memStore) Tasks(dbx.DBTX) tasks.Repository             { return memTasks{m} }

type memUsers struct{ m *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.m.tick()
	cp.UpdatedAt = cp.CreatedAt
	r.m.users[cp.ID] = &cp
	return &cp, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

type memTasks struct{ m *memStore }

func (r memTasks) index(id, userID string) int {
	for i, t := range r.m.tasks {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}

func (r memTasks) ListByOwner(ctx context.Context, userID string) ([]*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.Task, 0)
	for i := len(r.m.tasks) - 1; i >= 0; i-- {
		if r.m.tasks[i].UserID == userID {
			cp := *r.m.tasks[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memTasks) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if i := r.index(id, userID); i >= 0 {
		cp := *r.m.tasks[i]
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTasks) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *t
	cp.ID = uuid.NewString()
	cp.CreatedAt = r.m.tick()
	cp.UpdatedAt = cp.CreatedAt
	r.m.tasks = append(r.m.tasks, &cp)
	out := cp
	return &out, nil
}

func (r memTasks) Update(ctx context.Context, id, userID string, p models.TaskPatch) (*models.Task, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i := r.index(id, userID)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	t := r.m.tasks[i]
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.DescriptionSet {
		t.Description = p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = r.m.tick()
	cp := *t
	return &cp, nil
}

func (r memTasks) DeleteByIDAndOwner(ctx context.Context, id, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	i := r.index(id, userID)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.m.tasks = append(r.m.tasks[:i], r.m.tasks[i+1:]...)
	return nil
}
