package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CreateTaskInput is the body of a create request. An empty status means
// the default (TODO).
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      string
}

// UpdateTaskInput is a partial update. Nil pointers are omitted fields;
// DescriptionSet marks a description that was sent, possibly as null.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *string
}

// TaskService enforces task validation and ownership. Every operation is
// scoped to the calling user.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns the caller's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one of the caller's tasks.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	task, err := s.repomanager.Tasks(s.db).GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, wrapRepoErr("error fetching task", err)
	}
	return task, nil
}

// Create validates in and stores a new task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, common.NewValidationError("Title is required")
	}

	status := models.StatusTodo
	if in.Status != "" {
		parsed, err := models.ParseStatus(in.Status)
		if err != nil {
			return nil, common.NewValidationError("Invalid status value")
		}
		status = parsed
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		Title:       title,
		Description: common.TrimToNil(in.Description),
		Status:      status,
		UserID:      userID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// Update validates in, then applies it in one owner-scoped statement.
// An invalid patch never reaches the store.
func (s *TaskService) Update(ctx context.Context, userID, id string, in UpdateTaskInput) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	var patch models.TaskPatch

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, common.NewValidationError("Title cannot be empty")
		}
		patch.Title = &title
	}

	if in.Status != nil {
		status, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, common.NewValidationError("Invalid status value")
		}
		patch.Status = &status
	}

	if in.DescriptionSet {
		patch.DescriptionSet = true
		patch.Description = common.TrimToNil(in.Description)
	}

	task, err := s.repomanager.Tasks(s.db).Update(ctx, id, userID, patch)
	if err != nil {
		return nil, wrapRepoErr("error updating task", err)
	}
	return task, nil
}

// Delete removes one of the caller's tasks permanently.
func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Tasks(s.db).DeleteByIDAndOwner(ctx, id, userID); err != nil {
		return wrapRepoErr("error deleting task", err)
	}
	return nil
}

// validID reports whether id can name a task at all. Anything else is
// reported as not found without a query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func wrapRepoErr(msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
