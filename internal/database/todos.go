package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskboard/api/internal/apperr"
	"github.com/taskboard/api/internal/models"
)

// TodoRepository handles todo database operations.
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, task_id, title, completed, sort_order, scheduled_date, completed_date, created_at, updated_at`

func scanTodo(row interface{ Scan(...any) error }) (*models.Todo, error) {
	todo := &models.Todo{}
	var scheduledDate, completedDate, updatedAt sql.NullTime
	if err := row.Scan(
		&todo.ID,
		&todo.TaskID,
		&todo.Title,
		&todo.Completed,
		&todo.Order,
		&scheduledDate,
		&completedDate,
		&todo.CreatedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if scheduledDate.Valid {
		todo.ScheduledDate = &scheduledDate.Time
	}
	if completedDate.Valid {
		todo.CompletedDate = &completedDate.Time
	}
	if updatedAt.Valid {
		todo.UpdatedAt = &updatedAt.Time
	}
	return todo, nil
}

// TodoFilter holds the list query parameters for the global todo listing.
type TodoFilter struct {
	Title       string
	Completed   *bool
	TaskName    string
	ProjectName string
	SortBy      string
	SortOrder   string
	Skip        int
	Limit       int
}

// todoSortColumns is the allow-list of sortable columns for the global todo
// listing, including the joined task and project names.
var todoSortColumns = map[string]string{
	"id":             "todos.id",
	"title":          "todos.title",
	"completed":      "todos.completed",
	"order":          "todos.sort_order",
	"scheduled_date": "todos.scheduled_date",
	"completed_date": "todos.completed_date",
	"created_at":     "todos.created_at",
	"updated_at":     "todos.updated_at",
	"task_name":      "tasks.title",
	"project_name":   "projects.name",
}

// ListAll returns todos joined with their owning task and (for project
// tasks) that task's project, plus the total match count. Personal-task
// todos surface the fixed personal label in place of a project name.
func (r *TodoRepository) ListAll(ctx context.Context, filter TodoFilter) ([]*models.TodoListItem, int, error) {
	where := "WHERE TRUE"
	var args []any

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		where += fmt.Sprintf(" AND todos.title ILIKE $%d", len(args))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		where += fmt.Sprintf(" AND todos.completed = $%d", len(args))
	}
	if filter.TaskName != "" {
		args = append(args, "%"+filter.TaskName+"%")
		where += fmt.Sprintf(" AND tasks.title ILIKE $%d", len(args))
	}
	if filter.ProjectName != "" {
		args = append(args, "%"+filter.ProjectName+"%")
		where += fmt.Sprintf(" AND projects.name ILIKE $%d", len(args))
	}

	const joins = `FROM todos
		JOIN tasks ON todos.task_id = tasks.id
		LEFT JOIN projects ON tasks.project_id = projects.id`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) `+joins+` `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromDB(err)
	}

	sortColumn, ok := todoSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "todos.sort_order"
	}
	direction := "ASC"
	if filter.SortOrder == "desc" {
		direction = "DESC"
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf(
		`SELECT todos.id, todos.task_id, todos.title, todos.completed, todos.sort_order,
		        todos.scheduled_date, todos.completed_date, todos.created_at, todos.updated_at,
		        tasks.title, tasks.project_id, projects.name
		 %s %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		joins, where, sortColumn, direction, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromDB(err)
	}
	defer rows.Close()

	items := []*models.TodoListItem{}
	for rows.Next() {
		item := &models.TodoListItem{}
		var scheduledDate, completedDate, updatedAt sql.NullTime
		var taskName, projectName sql.NullString
		var projectID sql.NullInt64
		if err := rows.Scan(
			&item.ID,
			&item.TaskID,
			&item.Title,
			&item.Completed,
			&item.Order,
			&scheduledDate,
			&completedDate,
			&item.CreatedAt,
			&updatedAt,
			&taskName,
			&projectID,
			&projectName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan todo listing row: %w", err)
		}
		if scheduledDate.Valid {
			item.ScheduledDate = &scheduledDate.Time
		}
		if completedDate.Valid {
			item.CompletedDate = &completedDate.Time
		}
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}
		if taskName.Valid {
			item.TaskName = &taskName.String
		}
		if projectID.Valid {
			item.ProjectID = &projectID.Int64
			if models.ScopeOf(projectID.Int64).Personal() {
				label := models.PersonalProjectLabel
				item.ProjectName = &label
			} else if projectName.Valid {
				item.ProjectName = &projectName.String
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating todos: %w", err)
	}
	return items, total, nil
}

// GetByID retrieves a todo by id.
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	todo, err := scanTodo(r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Todo with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return todo, nil
}

func taskExists(ctx context.Context, q Querier, taskID int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, taskID,
	).Scan(&exists); err != nil {
		return apperr.FromDB(err)
	}
	if !exists {
		return apperr.NotFound("Task with id %d not found", taskID)
	}
	return nil
}

// ListByTask returns a task's todos in checklist order.
func (r *TodoRepository) ListByTask(ctx context.Context, taskID int64) ([]*models.Todo, error) {
	if err := taskExists(ctx, r.db, taskID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE task_id = $1 ORDER BY sort_order ASC`, taskID,
	)
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

// CreateForTask persists a new todo under the given task.
func (r *TodoRepository) CreateForTask(ctx context.Context, taskID int64, todo *models.Todo) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := taskExists(ctx, tx, taskID); err != nil {
			return err
		}

		todo.TaskID = taskID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO todos (task_id, title, completed, sort_order, scheduled_date, completed_date)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			todo.TaskID, todo.Title, todo.Completed, todo.Order, todo.ScheduledDate, todo.CompletedDate,
		).Scan(&todo.ID, &todo.CreatedAt)
		if err != nil {
			return apperr.FromDB(err)
		}
		return nil
	})
}

// TodoPatch carries the fields present in a todo update request.
type TodoPatch struct {
	Title         *string
	Completed     *bool
	Order         *int
	ScheduledDate models.Optional[time.Time]
	CompletedDate models.Optional[time.Time]
}

// Update applies a partial update to a todo. When the patch carries
// completed_date, its presence drives the completed flag: a value marks the
// todo completed, an explicit null marks it open again.
func (r *TodoRepository) Update(ctx context.Context, id int64, patch TodoPatch) (*models.Todo, error) {
	var updated *models.Todo
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		todo, err := scanTodo(tx.QueryRowContext(ctx,
			`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Todo with id %d not found", id)
		}
		if err != nil {
			return apperr.FromDB(err)
		}

		if patch.Title != nil {
			todo.Title = *patch.Title
		}
		if patch.Completed != nil {
			todo.Completed = *patch.Completed
		}
		if patch.Order != nil {
			todo.Order = *patch.Order
		}
		if patch.ScheduledDate.Set {
			todo.ScheduledDate = patch.ScheduledDate.Ptr()
		}
		if patch.CompletedDate.Set {
			todo.CompletedDate = patch.CompletedDate.Ptr()
			todo.Completed = patch.CompletedDate.Valid
		}

		now := time.Now()
		_, err = tx.ExecContext(ctx,
			`UPDATE todos
			 SET title = $2, completed = $3, sort_order = $4, scheduled_date = $5, completed_date = $6, updated_at = $7
			 WHERE id = $1`,
			id, todo.Title, todo.Completed, todo.Order, todo.ScheduledDate, todo.CompletedDate, now,
		)
		if err != nil {
			return apperr.FromDB(err)
		}
		todo.UpdatedAt = &now
		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a todo by id.
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
		if err != nil {
			return apperr.FromDB(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return apperr.NotFound("Todo with id %d not found", id)
		}
		return nil
	})
}
