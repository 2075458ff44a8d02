package database

import (
	"context"

	"github.com/taskboard/api/internal/models"
)

// TaskStore is the task repository surface the handlers depend on. The
// interface exists so handler tests can substitute a fake store.
type TaskStore interface {
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, int, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error)
	Reposition(ctx context.Context, id int64, newIndex int) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

// StatusStore is the status repository surface the handlers depend on.
type StatusStore interface {
	List(ctx context.Context) ([]*models.Status, error)
	GetByID(ctx context.Context, id int64) (*models.Status, error)
	Create(ctx context.Context, status *models.Status) error
	Update(ctx context.Context, id int64, patch StatusPatch) (*models.Status, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectStore is the project repository surface the handlers depend on.
type ProjectStore interface {
	List(ctx context.Context, filter ProjectFilter) ([]*models.Project, int, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id int64, patch ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

// TodoStore is the todo repository surface the handlers depend on.
type TodoStore interface {
	ListAll(ctx context.Context, filter TodoFilter) ([]*models.TodoListItem, int, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	ListByTask(ctx context.Context, taskID int64) ([]*models.Todo, error)
	CreateForTask(ctx context.Context, taskID int64, todo *models.Todo) error
	Update(ctx context.Context, id int64, patch TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// Ensure concrete types implement the interfaces
var (
	_ TaskStore    = (*TaskRepository)(nil)
	_ StatusStore  = (*StatusRepository)(nil)
	_ ProjectStore = (*ProjectRepository)(nil)
	_ TodoStore    = (*TodoRepository)(nil)
)
