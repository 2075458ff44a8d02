package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/taskboard/api/internal/apperr"
	"github.com/taskboard/api/internal/models"
	"github.com/taskboard/api/internal/ordering"
)

// TaskRepository handles task database operations, including the two order
// mutation paths of the ordering engine.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, status, status_id, project_id, assignee, sort_order, completed, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	task := &models.Task{}
	var description, assignee sql.NullString
	var statusID sql.NullInt64
	var updatedAt sql.NullTime
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&statusID,
		&task.ProjectID,
		&assignee,
		&task.Order,
		&task.Completed,
		&task.CreatedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	if statusID.Valid {
		task.StatusID = &statusID.Int64
	}
	if assignee.Valid {
		task.Assignee = &assignee.String
	}
	if updatedAt.Valid {
		task.UpdatedAt = &updatedAt.Time
	}
	return task, nil
}

// TaskFilter holds the list query parameters for tasks.
type TaskFilter struct {
	ProjectID  *int64
	ProjectIDs []int64
	Assignee   string
	Skip       int
	Limit      int
}

// buildTaskWhere translates the filter into a WHERE clause. A bare assignee
// filter means "that assignee's personal tasks"; a project id list containing
// the sentinel folds personal tasks into the result.
func buildTaskWhere(filter TaskFilter) (string, []any) {
	var args []any

	switch {
	case filter.ProjectID != nil:
		args = append(args, *filter.ProjectID)
		where := fmt.Sprintf("WHERE project_id = $%d", len(args))
		if filter.Assignee != "" {
			args = append(args, filter.Assignee)
			where += fmt.Sprintf(" AND assignee = $%d", len(args))
		}
		return where, args

	case len(filter.ProjectIDs) > 0:
		var others []int64
		personal := false
		for _, id := range filter.ProjectIDs {
			if models.ScopeOf(id).Personal() {
				personal = true
			} else {
				others = append(others, id)
			}
		}

		var cond string
		switch {
		case personal && len(others) > 0:
			args = append(args, pq.Array(others))
			projCond := fmt.Sprintf("project_id = ANY($%d)", len(args))
			args = append(args, models.PersonalProjectID)
			personalCond := fmt.Sprintf("project_id = $%d", len(args))
			if filter.Assignee != "" {
				args = append(args, filter.Assignee)
				a := fmt.Sprintf("assignee = $%d", len(args))
				cond = fmt.Sprintf("((%s AND %s) OR (%s AND %s))", projCond, a, personalCond, a)
			} else {
				cond = fmt.Sprintf("(%s OR %s)", projCond, personalCond)
			}
		case personal:
			args = append(args, models.PersonalProjectID)
			cond = fmt.Sprintf("project_id = $%d", len(args))
			if filter.Assignee != "" {
				args = append(args, filter.Assignee)
				cond += fmt.Sprintf(" AND assignee = $%d", len(args))
			}
		default:
			args = append(args, pq.Array(others))
			cond = fmt.Sprintf("project_id = ANY($%d)", len(args))
			if filter.Assignee != "" {
				args = append(args, filter.Assignee)
				cond += fmt.Sprintf(" AND assignee = $%d", len(args))
			}
		}
		return "WHERE " + cond, args

	case filter.Assignee != "":
		args = append(args, models.PersonalProjectID, filter.Assignee)
		return "WHERE project_id = $1 AND assignee = $2", args

	default:
		return "", nil
	}
}

// List returns tasks matching the filter plus the total match count, ordered
// by status reference (nulls last) then per-group order.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]*models.Task, int, error) {
	where, args := buildTaskWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromDB(err)
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf(
		`SELECT %s FROM tasks %s ORDER BY status_id ASC NULLS LAST, sort_order ASC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromDB(err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, total, nil
}

// GetByID retrieves a task by id.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Task with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return task, nil
}

// Create persists a new task. Personal tasks require an assignee. When no
// explicit status reference is given, the status name is resolved against the
// shared statuses; unresolved names leave the reference null.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	scope := task.Scope()
	if scope.Personal() && (task.Assignee == nil || *task.Assignee == "") {
		return apperr.Validation("Assignee is required for personal tasks")
	}
	if task.Status == "" {
		task.Status = models.DefaultTaskStatus
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if task.StatusID == nil && !scope.Personal() {
			statusID, err := resolveSharedStatusID(ctx, tx, task.Status)
			if err != nil {
				return apperr.FromDB(err)
			}
			task.StatusID = statusID
		}

		err := tx.QueryRowContext(ctx,
			`INSERT INTO tasks (title, description, status, status_id, project_id, assignee, sort_order, completed)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at`,
			task.Title, task.Description, task.Status, task.StatusID,
			task.ProjectID, task.Assignee, task.Order, task.Completed,
		).Scan(&task.ID, &task.CreatedAt)
		if err != nil {
			return apperr.FromDB(err)
		}
		return nil
	})
}

// groupKey identifies a task ordering group. Project tasks group by their
// resolved status reference; tasks without one, and all personal tasks, group
// by the raw status name (personal tasks additionally by assignee, since many
// assignees share the sentinel project).
type groupKey struct {
	projectID  int64
	statusID   *int64
	statusName string
	assignee   *string
}

func taskGroupKey(projectID int64, statusID *int64, statusName string, assignee *string) groupKey {
	key := groupKey{projectID: projectID, statusName: statusName}
	if models.ScopeOf(projectID).Personal() {
		key.assignee = assignee
		return key
	}
	key.statusID = statusID
	return key
}

// groupSiblings loads the ordering-group members, optionally excluding one
// task id (the task being moved).
func groupSiblings(ctx context.Context, q Querier, key groupKey, excludeID *int64) ([]ordering.Sibling, error) {
	var where string
	var args []any

	switch {
	case models.ScopeOf(key.projectID).Personal():
		where = `project_id = $1 AND status = $2 AND assignee IS NOT DISTINCT FROM $3`
		args = []any{key.projectID, key.statusName, key.assignee}
	case key.statusID != nil:
		where = `project_id = $1 AND status_id = $2`
		args = []any{key.projectID, *key.statusID}
	default:
		where = `project_id = $1 AND status = $2 AND status_id IS NULL`
		args = []any{key.projectID, key.statusName}
	}

	if excludeID != nil {
		args = append(args, *excludeID)
		where += fmt.Sprintf(" AND id != $%d", len(args))
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, sort_order FROM tasks WHERE `+where+` ORDER BY sort_order ASC, id ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ordering group: %w", err)
	}
	defer rows.Close()

	var siblings []ordering.Sibling
	for rows.Next() {
		var s ordering.Sibling
		if err := rows.Scan(&s.ID, &s.Order); err != nil {
			return nil, fmt.Errorf("failed to scan ordering group member: %w", err)
		}
		siblings = append(siblings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ordering group: %w", err)
	}
	return siblings, nil
}

func applyOrderChanges(ctx context.Context, tx *sql.Tx, changes []ordering.Change, now time.Time) error {
	for _, change := range changes {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET sort_order = $2, updated_at = $3 WHERE id = $1`,
			change.ID, change.Order, now,
		); err != nil {
			return fmt.Errorf("failed to apply order change for task %d: %w", change.ID, err)
		}
	}
	return nil
}

// TaskPatch carries the fields present in a task update request.
type TaskPatch struct {
	Title       *string
	Description models.Optional[string]
	Status      *string
	Order       *int
	Completed   *bool
	ProjectID   *int64
	Assignee    models.Optional[string]
}

// Update applies a partial update to a task. A status name in the patch is
// re-resolved against the shared statuses (personal tasks always resolve to
// no reference). An order value in the patch runs the shift-based reorder in
// the destination group; the vacated group is not compacted. All row writes
// share one transaction.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		task, err := scanTask(tx.QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Task with id %d not found", id)
		}
		if err != nil {
			return apperr.FromDB(err)
		}

		if patch.Title != nil {
			task.Title = *patch.Title
		}
		if patch.Description.Set {
			task.Description = patch.Description.Ptr()
		}
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		}
		if patch.ProjectID != nil {
			task.ProjectID = *patch.ProjectID
		}
		if patch.Assignee.Set {
			task.Assignee = patch.Assignee.Ptr()
		}

		if patch.Status != nil {
			task.Status = *patch.Status
			if task.Scope().Personal() {
				task.StatusID = nil
			} else {
				statusID, err := resolveSharedStatusID(ctx, tx, task.Status)
				if err != nil {
					return apperr.FromDB(err)
				}
				task.StatusID = statusID
			}
		}

		now := time.Now()

		if patch.Order != nil && *patch.Order != task.Order {
			key := taskGroupKey(task.ProjectID, task.StatusID, task.Status, task.Assignee)
			siblings, err := groupSiblings(ctx, tx, key, &id)
			if err != nil {
				return apperr.FromDB(err)
			}
			changes := ordering.PlanShift(siblings, task.Order, *patch.Order)
			if err := applyOrderChanges(ctx, tx, changes, now); err != nil {
				return apperr.FromDB(err)
			}
			task.Order = *patch.Order
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE tasks
			 SET title = $2, description = $3, status = $4, status_id = $5, project_id = $6,
			     assignee = $7, sort_order = $8, completed = $9, updated_at = $10
			 WHERE id = $1`,
			id, task.Title, task.Description, task.Status, task.StatusID,
			task.ProjectID, task.Assignee, task.Order, task.Completed, now,
		)
		if err != nil {
			return apperr.FromDB(err)
		}
		task.UpdatedAt = &now
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Reposition moves a task to a display index within its ordering group by
// exchanging order values with the current occupant of that index. The index
// is clamped into range; moving to the current index is a no-op.
func (r *TaskRepository) Reposition(ctx context.Context, id int64, newIndex int) (*models.Task, error) {
	var updated *models.Task
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		task, err := scanTask(tx.QueryRowContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Task with id %d not found", id)
		}
		if err != nil {
			return apperr.FromDB(err)
		}

		key := taskGroupKey(task.ProjectID, task.StatusID, task.Status, task.Assignee)
		group, err := groupSiblings(ctx, tx, key, nil)
		if err != nil {
			return apperr.FromDB(err)
		}

		swap, err := ordering.PlanSwap(group, id, newIndex)
		if errors.Is(err, ordering.ErrNotInGroup) {
			return apperr.NotFound("Task with id %d not found in its status group", id)
		}
		if err != nil {
			return err
		}
		if swap == nil {
			updated = task
			return nil
		}

		now := time.Now()
		if err := applyOrderChanges(ctx, tx, []ordering.Change{swap.Moving, swap.Displaced}, now); err != nil {
			return apperr.FromDB(err)
		}
		task.Order = swap.Moving.Order
		task.UpdatedAt = &now
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a task by id. Owned todos go with it via cascade.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return apperr.FromDB(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return apperr.NotFound("Task with id %d not found", id)
		}
		return nil
	})
}
