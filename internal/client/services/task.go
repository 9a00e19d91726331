// Package services holds the client's application logic: the session, the
// task cache coordinator with optimistic updates, and authentication.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/client/cache"
	"github.com/dmitrijs2005/taskboard/internal/client/client"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/common"
)

// TaskService keeps the local cache in step with the server. Creates and
// deletes touch the cache only after the server confirms them; updates are
// applied optimistically and rolled back on failure.
//
// Overlapping mutations of the same task each roll back to their own
// snapshot, so a late failure can overwrite a newer optimistic state.
type TaskService struct {
	api      client.API
	store    cache.Store
	session  *Session
	notifier Notifier
	now      func() time.Time

	// serializes cache read-modify-write; never held across network calls
	mu sync.Mutex
}

// NewTaskService wires a coordinator. n may be nil.
func NewTaskService(api client.API, store cache.Store, session *Session, n Notifier) *TaskService {
	if n == nil {
		n = nopNotifier{}
	}
	return &TaskService{api: api, store: store, session: session, notifier: n, now: time.Now}
}

func (s *TaskService) userID() (string, error) {
	uid := s.session.UserID()
	if uid == "" {
		return "", ErrNotSignedIn
	}
	return uid, nil
}

// sameUser reports whether the session still belongs to uid. Results that
// arrive after a logout or account switch are dropped.
func (s *TaskService) sameUser(uid string) bool {
	return s.session.UserID() == uid
}

// Refresh replaces the cached partition with the server's list.
func (s *TaskService) Refresh(ctx context.Context) ([]*models.Task, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to fetch tasks")
	}

	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to fetch tasks")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameUser(uid) {
		if err := s.store.Replace(context.WithoutCancel(ctx), uid, tasks); err != nil {
			return nil, surface(s.notifier, err, "Failed to update local cache")
		}
	}
	return tasks, nil
}

// Tasks returns the cached tasks, newest first.
func (s *TaskService) Tasks(ctx context.Context) ([]cache.Entry, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to fetch tasks")
	}
	return s.store.List(ctx, uid)
}

// Task returns one task, from the cache when present, otherwise from the
// server.
func (s *TaskService) Task(ctx context.Context, id string) (*cache.Entry, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to fetch task")
	}

	e, err := s.store.Get(ctx, uid, id)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, surface(s.notifier, err, "Failed to fetch task")
	}

	t, err := s.api.GetTask(ctx, id)
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to fetch task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameUser(uid) {
		_ = s.store.Put(ctx, uid, cache.Entry{Task: t})
	}
	return &cache.Entry{Task: t}, nil
}

// Board groups the cached tasks by status after search and filter.
func (s *TaskService) Board(ctx context.Context, query string, status models.Status) (*models.Board, error) {
	entries, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]*models.Task, len(entries))
	for i, e := range entries {
		tasks[i] = e.Task
	}
	return models.NewBoard(tasks, models.Filter{Query: query, Status: status}), nil
}

// Create sends in to the server and caches the confirmed task.
func (s *TaskService) Create(ctx context.Context, in models.NewTask) (*models.Task, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to create task")
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, surface(s.notifier, common.NewValidationError("Title is required"), "")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, surface(s.notifier, common.NewValidationError("Invalid status value"), "")
	}

	t, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to create task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameUser(uid) {
		if err := s.store.Put(context.WithoutCancel(ctx), uid, cache.Entry{Task: t}); err != nil {
			return nil, surface(s.notifier, err, "Failed to update local cache")
		}
	}
	s.notifier.Notify(LevelInfo, "Task created successfully")
	return t, nil
}

// Update applies u optimistically, then confirms it with the server.
func (s *TaskService) Update(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error) {
	return s.mutate(ctx, MutationUpdate, id, u)
}

// ChangeStatus moves a task to status. An invalid status is rejected
// before anything is changed.
func (s *TaskService) ChangeStatus(ctx context.Context, id, status string) (*models.Task, error) {
	st, err := models.ParseStatus(status)
	if err != nil {
		return nil, surface(s.notifier, common.NewValidationError("Invalid status value"), "")
	}
	return s.mutate(ctx, MutationStatus, id, models.TaskUpdate{Status: &st})
}

func validateUpdate(u models.TaskUpdate) error {
	if u.Empty() {
		return common.NewValidationError("Nothing to update")
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return common.NewValidationError("Title cannot be empty")
	}
	if u.Status != nil && !u.Status.Valid() {
		return common.NewValidationError("Invalid status value")
	}
	return nil
}

// ensureCached loads a task the cache does not know yet from the server,
// so a mutation has something to snapshot.
func (s *TaskService) ensureCached(ctx context.Context, uid, id string) error {
	_, err := s.store.Get(ctx, uid, id)
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	t, err := s.api.GetTask(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sameUser(uid) {
		return ErrNotSignedIn
	}
	if _, err := s.store.Get(ctx, uid, id); errors.Is(err, common.ErrorNotFound) {
		return s.store.Put(ctx, uid, cache.Entry{Task: t})
	}
	return nil
}

func (s *TaskService) mutate(ctx context.Context, kind MutationKind, id string, u models.TaskUpdate) (*models.Task, error) {
	fallback := kind.FailureMessage()

	uid, err := s.userID()
	if err != nil {
		return nil, surface(s.notifier, err, fallback)
	}
	if err := validateUpdate(u); err != nil {
		return nil, surface(s.notifier, err, fallback)
	}
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		u.Title = &title
	}
	if err := s.ensureCached(ctx, uid, id); err != nil {
		return nil, surface(s.notifier, err, fallback)
	}

	m := &Mutation{Kind: kind, UserID: uid, TaskID: id, Change: u}

	s.mu.Lock()
	err = m.Apply(ctx, s.store, s.now())
	s.mu.Unlock()
	if err != nil {
		return nil, surface(s.notifier, err, fallback)
	}

	t, apiErr := s.api.UpdateTask(ctx, id, u)

	// The optimistic entry must be settled even when ctx ended the call.
	settleCtx := context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if apiErr != nil {
		if err := m.Rollback(settleCtx, s.store); err != nil {
			return nil, surface(s.notifier, errors.Join(apiErr, err), fallback)
		}
		return nil, surface(s.notifier, apiErr, fallback)
	}

	if err := m.Commit(settleCtx, s.store, t); err != nil {
		return nil, surface(s.notifier, err, "Failed to update local cache")
	}
	s.notifier.Notify(LevelInfo, kind.SuccessMessage())
	return t, nil
}

// Delete removes a task on the server, then from the cache.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	uid, err := s.userID()
	if err != nil {
		return surface(s.notifier, err, "Failed to delete task")
	}

	if err := s.api.DeleteTask(ctx, id); err != nil {
		return surface(s.notifier, err, "Failed to delete task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sameUser(uid) {
		if err := s.store.Remove(context.WithoutCancel(ctx), uid, id); err != nil {
			return surface(s.notifier, err, "Failed to update local cache")
		}
	}
	s.notifier.Notify(LevelInfo, "Task deleted successfully")
	return nil
}

// Export asks the server for a downloadable snapshot of every task.
func (s *TaskService) Export(ctx context.Context) (*models.TaskExport, error) {
	if _, err := s.userID(); err != nil {
		return nil, surface(s.notifier, err, "Failed to export tasks")
	}
	e, err := s.api.ExportTasks(ctx)
	if err != nil {
		return nil, surface(s.notifier, err, "Failed to export tasks")
	}
	return e, nil
}

// Resolve expands a unique id prefix against the cache. Failures are
// reported through the notifier.
func (s *TaskService) Resolve(ctx context.Context, prefix string) (string, error) {
	entries, err := s.Tasks(ctx)
	if err != nil {
		return "", err
	}

	var match string
	for _, e := range entries {
		if e.Task.ID == prefix {
			return prefix, nil
		}
		if strings.HasPrefix(e.Task.ID, prefix) {
			if match != "" {
				return "", surface(s.notifier, &Error{Message: "Ambiguous task id " + prefix}, "")
			}
			match = e.Task.ID
		}
	}
	if match == "" {
		return "", surface(s.notifier, common.ErrorNotFound, "")
	}
	return match, nil
}
