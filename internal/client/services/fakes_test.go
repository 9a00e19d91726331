package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/client/client"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

var (
	alice = &models.User{ID: "u-alice", Email: "alice@example.com", Name: "Alice"}
	bob   = &models.User{ID: "u-bob", Email: "bob@example.com", Name: "Bob"}
)

var errConn = fmt.Errorf("%w: dial tcp: connection refused", client.ErrUnavailable)

func strPtr(s string) *string { return &s }

func mkTask(id, title string, st models.Status, sec int) *models.Task {
	ts := time.Date(2025, 1, 1, 0, 0, sec, 0, time.UTC)
	return &models.Task{ID: id, Title: title, Status: st, CreatedAt: ts, UpdatedAt: ts}
}

// fakeAPI implements client.API for service tests. Setting updateGate makes
// UpdateTask block until the test releases it.
type fakeAPI struct {
	mu sync.Mutex

	user  *models.User
	tasks []*models.Task

	loginErr  error
	meErr     error
	logoutErr error
	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	exportErr error

	updateGate    chan struct{}
	updateStarted chan struct{}

	cleared   int
	lastNew   models.NewTask
	lastPatch models.TaskUpdate
	calls     []string
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	f.record("register")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.record("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeAPI) Me(ctx context.Context) (*models.User, error) {
	f.record("me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]*models.Task, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (f *fakeAPI) GetTask(ctx context.Context, id string) (*models.Task, error) {
	f.record("get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Task not found"}
}

func (f *fakeAPI) CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error) {
	f.record("create")
	f.mu.Lock()
	f.lastNew = in
	f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	st := in.Status
	if st == "" {
		st = models.StatusTodo
	}
	t := mkTask("t-new", in.Title, st, 30)
	t.Description = in.Description
	return t, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	f.record("update")
	f.mu.Lock()
	f.lastPatch = u
	gate, started := f.updateGate, f.updateStarted
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			cp := t.Clone()
			u.ApplyTo(cp)
			cp.UpdatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			return cp, nil
		}
	}
	return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Task not found"}
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	f.record("delete")
	return f.deleteErr
}

func (f *fakeAPI) ExportTasks(ctx context.Context) (*models.TaskExport, error) {
	f.record("export")
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return &models.TaskExport{Key: "k", URL: "http://s3/k", Count: len(f.tasks)}, nil
}

func (f *fakeAPI) Ping(ctx context.Context) error { return nil }

func (f *fakeAPI) ClearSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

// recordingNotifier keeps every notification.
type recordingNotifier struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (r *recordingNotifier) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level == LevelError {
		r.errors = append(r.errors, msg)
	} else {
		r.infos = append(r.infos, msg)
	}
}

func (r *recordingNotifier) lastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[len(r.errors)-1]
}
