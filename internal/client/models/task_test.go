package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"TODO":         StatusTodo,
		"todo":         StatusTodo,
		"in-progress":  StatusInProgress,
		" In_Progress": StatusInProgress,
		"done":         StatusDone,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("BLOCKED")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Backlog", StatusTodo.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Done", StatusDone.Label())
}

func TestTaskClone_IsDeep(t *testing.T) {
	orig := &Task{ID: "1", Title: "a", Description: strPtr("d"), Status: StatusTodo, UpdatedAt: time.Unix(1, 0)}
	cp := orig.Clone()

	*cp.Description = "changed"
	cp.Title = "b"

	assert.Equal(t, "d", *orig.Description)
	assert.Equal(t, "a", orig.Title)
	assert.Nil(t, (*Task)(nil).Clone())
}

func TestTaskUpdate_ApplyTo(t *testing.T) {
	done := StatusDone
	task := &Task{Title: "a", Description: strPtr("d"), Status: StatusTodo}

	TaskUpdate{Status: &done}.ApplyTo(task)
	assert.Equal(t, StatusDone, task.Status)
	assert.Equal(t, "a", task.Title)
	require.NotNil(t, task.Description)

	TaskUpdate{ClearDescription: true, Title: strPtr("b")}.ApplyTo(task)
	assert.Nil(t, task.Description)
	assert.Equal(t, "b", task.Title)
}

func TestTaskUpdate_MarshalJSON(t *testing.T) {
	st := StatusInProgress

	raw, err := json.Marshal(TaskUpdate{Status: &st})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"IN_PROGRESS"}`, string(raw))

	raw, err = json.Marshal(TaskUpdate{ClearDescription: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":null}`, string(raw))

	raw, err = json.Marshal(TaskUpdate{Title: strPtr("x"), Description: strPtr("y")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","description":"y"}`, string(raw))

	assert.True(t, TaskUpdate{}.Empty())
	assert.False(t, TaskUpdate{ClearDescription: true}.Empty())
}

func TestTask_DecodesNullDescription(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","title":"t","description":null,"status":"TODO","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}`), &task))
	assert.Nil(t, task.Description)
	assert.Equal(t, "", task.DescriptionText())
	assert.Equal(t, 2025, task.CreatedAt.Year())
}
