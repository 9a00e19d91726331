package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

// --- users ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User

	getErr    error
	createErr error
	calls     int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "20000000-0000-0000-0000-" + padInt(len(f.byID)+1)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

// --- tasks ---

type fakeTasksRepo struct {
	items []*models.Task

	err       error
	calls     int
	lastPatch models.TaskPatch
}

func (f *fakeTasksRepo) find(id, userID string) (int, bool) {
	for i, t := range f.items {
		if t.ID == id && t.UserID == userID {
			return i, true
		}
	}
	return -1, false
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Task, 0)
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeTasksRepo) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if i, ok := f.find(id, userID); ok {
		return f.items[i], nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cp := *t
	cp.ID = taskID(len(f.items) + 1)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.items = append(f.items, &cp)
	return &cp, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, id, userID string, p models.TaskPatch) (*models.Task, error) {
	f.calls++
	f.lastPatch = p
	if f.err != nil {
		return nil, f.err
	}
	i, ok := f.find(id, userID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f.items[i]
	if p.Title != nil {
		cp.Title = *p.Title
	}
	if p.DescriptionSet {
		cp.Description = p.Description
	}
	if p.Status != nil {
		cp.Status = *p.Status
	}
	cp.UpdatedAt = time.Now()
	f.items[i] = &cp
	return &cp, nil
}

func (f *fakeTasksRepo) DeleteByIDAndOwner(ctx context.Context, id, userID string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	i, ok := f.find(id, userID)
	if !ok {
		return common.ErrorNotFound
	}
	f.items = append(f.items[:i], f.items[i+1:]...)
	return nil
}

func taskID(n int) string {
	return "10000000-0000-0000-0000-" + padInt(n)
}

func padInt(n int) string {
	s := "000000000000"
	d := []byte(s)
	for i := len(d) - 1; n > 0 && i >= 0; i-- {
		d[i] = byte('0' + n%10)
		n /= 10
	}
	return string(d)
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository            { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository            { return m.t }

// --- auth collaborators ---

type fakeHasher struct {
	hashErr    error
	dummyCalls int
}

func (h *fakeHasher) Hash(plain string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plain, nil
}

func (h *fakeHasher) Verify(plain, hash string) bool { return hash == "hashed:"+plain }

func (h *fakeHasher) VerifyDummy(string) { h.dummyCalls++ }

type fakeTokens struct {
	err error
}

func (f *fakeTokens) Issue(userID, email string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return "tok-" + userID, time.Now().Add(time.Hour), nil
}

var errDB = errors.New("db down")
