// Package models holds the client-side view of users and tasks and the
// board projection the CLI renders.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists the valid statuses in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label is the column heading for s.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "Backlog"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus accepts the wire form and a few CLI-friendly spellings
// ("todo", "in-progress", "done").
func ParseStatus(s string) (Status, error) {
	norm := Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !norm.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return norm, nil
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Description != nil {
		d := *t.Description
		cp.Description = &d
	}
	return &cp
}

// DescriptionText returns the description or "".
func (t *Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// TaskUpdate is a partial change. Nil fields are left untouched;
// ClearDescription sends an explicit null.
type TaskUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *Status
}

// Empty reports whether u changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && !u.ClearDescription && u.Status == nil
}

// ApplyTo applies u to t in place.
func (u TaskUpdate) ApplyTo(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	switch {
	case u.ClearDescription:
		t.Description = nil
	case u.Description != nil:
		d := *u.Description
		t.Description = &d
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
}

// MarshalJSON renders only the fields being changed.
func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if u.Title != nil {
		body["title"] = *u.Title
	}
	switch {
	case u.ClearDescription:
		body["description"] = nil
	case u.Description != nil:
		body["description"] = *u.Description
	}
	if u.Status != nil {
		body["status"] = *u.Status
	}
	return json.Marshal(body)
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTask is the body of a create request. An empty Status lets the server
// default to TODO.
type NewTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      Status  `json:"status,omitempty"`
}

// TaskExport points at an uploaded snapshot of the user's tasks.
type TaskExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	Count     int       `json:"count"`
}
