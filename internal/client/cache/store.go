// Package cache is the client's local copy of the signed-in user's tasks.
// Entries are partitioned by user id so a session switch can never show
// another account's data.
package cache

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

// Entry is a cached task. Pending is set while an optimistic change awaits
// the server's answer.
type Entry struct {
	Task    *models.Task
	Pending bool
}

// Store is implemented by MemoryStore and SQLiteStore.
type Store interface {
	// List returns the user's entries, newest-created first.
	List(ctx context.Context, userID string) ([]Entry, error)
	// Get returns common.ErrorNotFound when the entry is absent.
	Get(ctx context.Context, userID, id string) (*Entry, error)
	// Put inserts or overwrites one entry.
	Put(ctx context.Context, userID string, e Entry) error
	// Replace swaps the user's whole partition for tasks, none pending.
	Replace(ctx context.Context, userID string, tasks []*models.Task) error
	Remove(ctx context.Context, userID, id string) error
	// Clear drops every partition.
	Clear(ctx context.Context) error
	Close() error
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Task, entries[j].Task
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
