package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/client/cache"
	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/common"
)

type MutationKind string

const (
	MutationUpdate MutationKind = "update"
	MutationStatus MutationKind = "status"
)

// FailureMessage is the fallback shown when a mutation of kind k fails
// without a more specific message.
func (k MutationKind) FailureMessage() string {
	if k == MutationStatus {
		return "Failed to update task status"
	}
	return "Failed to update task"
}

func (k MutationKind) SuccessMessage() string {
	if k == MutationStatus {
		return "Task status updated successfully"
	}
	return "Task updated successfully"
}

// Mutation is one optimistic change to a cached task. It remembers the
// entry as it was right before Apply so a failure restores exactly that.
//
// Mutations on the same task are not serialized: when two overlap and the
// older one fails late, its rollback overwrites the newer optimistic state.
type Mutation struct {
	Kind   MutationKind
	UserID string
	TaskID string
	Change models.TaskUpdate

	snapshot *cache.Entry
}

// Apply snapshots the cached entry, then writes the changed task marked
// pending with a fresh updatedAt.
func (m *Mutation) Apply(ctx context.Context, store cache.Store, now time.Time) error {
	cur, err := store.Get(ctx, m.UserID, m.TaskID)
	if err != nil {
		return err
	}
	m.snapshot = &cache.Entry{Task: cur.Task.Clone(), Pending: cur.Pending}

	next := cur.Task.Clone()
	m.Change.ApplyTo(next)
	next.UpdatedAt = now

	return store.Put(ctx, m.UserID, cache.Entry{Task: next, Pending: true})
}

// Commit stores the server's version of the task. No-op when the entry is
// gone from the cache. Callers settling after a network call should pass a
// context that is not cancelled with the request.
func (m *Mutation) Commit(ctx context.Context, store cache.Store, server *models.Task) error {
	if gone, err := vanished(ctx, store, m.UserID, m.TaskID); gone || err != nil {
		return err
	}
	return store.Put(ctx, m.UserID, cache.Entry{Task: server})
}

// Rollback restores the snapshot taken by Apply. No-op when the entry is
// gone from the cache or Apply never ran.
func (m *Mutation) Rollback(ctx context.Context, store cache.Store) error {
	if m.snapshot == nil {
		return nil
	}
	if gone, err := vanished(ctx, store, m.UserID, m.TaskID); gone || err != nil {
		return err
	}
	return store.Put(ctx, m.UserID, *m.snapshot)
}

func vanished(ctx context.Context, store cache.Store, userID, id string) (bool, error) {
	_, err := store.Get(ctx, userID, id)
	if errors.Is(err, common.ErrorNotFound) {
		return true, nil
	}
	return false, err
}
