package models

import "strings"

// Column is one status lane of the board.
type Column struct {
	Status Status
	Title  string
	Tasks  []*Task
}

// Board is the filtered, grouped view of a task list.
type Board struct {
	Columns []Column
	Total   int
}

// Filter narrows a board. Query matches title or description,
// case-insensitively. An empty Status keeps every column.
type Filter struct {
	Query  string
	Status Status
}

// Matches reports whether t passes f.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.DescriptionText()), q)
}

// NewBoard groups tasks into the three status columns, preserving input
// order inside each column. With a status filter only that column is kept.
func NewBoard(tasks []*Task, f Filter) *Board {
	b := &Board{}
	for _, st := range Statuses {
		if f.Status != "" && st != f.Status {
			continue
		}
		col := Column{Status: st, Title: st.Label(), Tasks: []*Task{}}
		for _, t := range tasks {
			if t.Status == st && f.Matches(t) {
				col.Tasks = append(col.Tasks, t)
			}
		}
		b.Total += len(col.Tasks)
		b.Columns = append(b.Columns, col)
	}
	return b
}
