package rest

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/gorilla/mux"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// optionalString records whether a JSON key was present at all, so an
// explicit null can be told apart from an omitted field.
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description optionalString `json:"description"`
	Status      *string        `json:"status"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	tasks, err := s.tasks.List(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	writeSuccess(w, http.StatusOK, tasks, "")
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	task, err := s.tasks.Get(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch task")
		return
	}

	writeSuccess(w, http.StatusOK, task, "")
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.tasks.Create(r.Context(), id.UserID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	s.metrics.TaskOperation("create", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to create task")
		return
	}

	writeSuccess(w, http.StatusCreated, task, "Task created successfully")
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req updateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.tasks.Update(r.Context(), id.UserID, mux.Vars(r)["id"], services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description.Value,
		DescriptionSet: req.Description.Set,
		Status:         req.Status,
	})
	s.metrics.TaskOperation("update", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to update task")
		return
	}

	writeSuccess(w, http.StatusOK, task, "Task updated successfully")
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	err := s.tasks.Delete(r.Context(), id.UserID, mux.Vars(r)["id"])
	s.metrics.TaskOperation("delete", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to delete task")
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Task deleted successfully")
}

func (s *Server) handleExportTasks(w http.ResponseWriter, r *http.Request) {
	if s.exports == nil {
		writeError(w, http.StatusServiceUnavailable, "Task export is not configured")
		return
	}

	id, _ := IdentityFrom(r.Context())

	out, err := s.exports.Export(r.Context(), id.UserID)
	s.metrics.TaskOperation("export", err)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to export tasks")
		return
	}

	writeSuccess(w, http.StatusCreated, out, "Tasks exported successfully")
}
