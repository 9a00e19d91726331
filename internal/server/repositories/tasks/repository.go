package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// Repository is the owner-scoped task store. Every lookup and mutation
// filters by id and user id together.
type Repository interface {
	ListByOwner(ctx context.Context, userID string) ([]*models.Task, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, userID string) error
}
