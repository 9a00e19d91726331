package client

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

// API is the taskboard REST contract as seen by the client.
type API interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	ListTasks(ctx context.Context) ([]*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, u models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ExportTasks(ctx context.Context) (*models.TaskExport, error)
	Ping(ctx context.Context) error
	// ClearSession forgets the bearer token and every stored cookie.
	ClearSession()
}
