package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taskboard/api/internal/apperr"
	"github.com/taskboard/api/internal/models"
)

// ProjectRepository handles project database operations.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ProjectFilter holds the list query parameters for projects.
type ProjectFilter struct {
	Assignee   string
	Name       string
	StartMonth string
	EndMonth   string
	SortBy     string
	SortOrder  string
	Skip       int
	Limit      int
}

// projectSortColumns is the allow-list of sortable columns.
var projectSortColumns = map[string]string{
	"id":          "id",
	"name":        "name",
	"start_month": "start_month",
	"end_month":   "end_month",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

const projectColumns = `id, name, description, start_month, end_month, assignee, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	project := &models.Project{}
	var description, startMonth, endMonth, assignee sql.NullString
	var updatedAt sql.NullTime
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&description,
		&startMonth,
		&endMonth,
		&assignee,
		&project.CreatedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		project.Description = &description.String
	}
	if startMonth.Valid {
		project.StartMonth = &startMonth.String
	}
	if endMonth.Valid {
		project.EndMonth = &endMonth.String
	}
	if updatedAt.Valid {
		project.UpdatedAt = &updatedAt.Time
	}
	project.Assignee = decodeAssignees(assignee)
	return project, nil
}

// decodeAssignees parses the stored JSON array. Unparseable legacy values
// degrade to an empty list rather than failing the read.
func decodeAssignees(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var assignees []string
	if err := json.Unmarshal([]byte(raw.String), &assignees); err != nil {
		return []string{}
	}
	return assignees
}

func encodeAssignees(assignees []string) (sql.NullString, error) {
	if assignees == nil {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(assignees)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal assignees: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}

// List returns projects matching the filter plus the total match count. The
// personal-task sentinel project is never listed.
func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]*models.Project, int, error) {
	where := `WHERE id != $1`
	args := []any{models.PersonalProjectID}

	if filter.Assignee != "" {
		args = append(args, `%"`+filter.Assignee+`"%`)
		where += fmt.Sprintf(" AND assignee LIKE $%d", len(args))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.StartMonth != "" {
		args = append(args, filter.StartMonth)
		where += fmt.Sprintf(" AND start_month = $%d", len(args))
	}
	if filter.EndMonth != "" {
		args = append(args, filter.EndMonth)
		where += fmt.Sprintf(" AND end_month = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects `+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromDB(err)
	}

	sortColumn, ok := projectSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf(
		`SELECT %s FROM projects %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		projectColumns, where, sortColumn, direction, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromDB(err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, total, nil
}

// GetByID retrieves a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	project, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Project with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return project, nil
}

// Create persists a new project. Statuses are shared across projects, so no
// per-project statuses are created here.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	assignee, err := encodeAssignees(project.Assignee)
	if err != nil {
		return err
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO projects (name, description, start_month, end_month, assignee)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			project.Name, project.Description, project.StartMonth, project.EndMonth, assignee,
		).Scan(&project.ID, &project.CreatedAt)
		if err != nil {
			return apperr.FromDB(err)
		}
		if project.Assignee == nil {
			project.Assignee = []string{}
		}
		return nil
	})
}

// ProjectPatch carries the fields present in a project update request.
type ProjectPatch struct {
	Name        *string
	Description models.Optional[string]
	StartMonth  models.Optional[string]
	EndMonth    models.Optional[string]
	Assignee    models.Optional[[]string]
}

// Update applies a partial update to a project. The sentinel project is
// immutable.
func (r *ProjectRepository) Update(ctx context.Context, id int64, patch ProjectPatch) (*models.Project, error) {
	if models.ScopeOf(id).Personal() {
		return nil, apperr.Forbidden("Cannot update system project")
	}

	var updated *models.Project
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		project, err := scanProject(tx.QueryRowContext(ctx,
			`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Project with id %d not found", id)
		}
		if err != nil {
			return apperr.FromDB(err)
		}

		if patch.Name != nil {
			project.Name = *patch.Name
		}
		if patch.Description.Set {
			project.Description = patch.Description.Ptr()
		}
		if patch.StartMonth.Set {
			project.StartMonth = patch.StartMonth.Ptr()
		}
		if patch.EndMonth.Set {
			project.EndMonth = patch.EndMonth.Ptr()
		}
		if patch.Assignee.Set {
			project.Assignee = nil
			if patch.Assignee.Valid {
				project.Assignee = patch.Assignee.Value
			}
		}

		assignee, err := encodeAssignees(project.Assignee)
		if err != nil {
			return err
		}

		now := time.Now()
		_, err = tx.ExecContext(ctx,
			`UPDATE projects
			 SET name = $2, description = $3, start_month = $4, end_month = $5, assignee = $6, updated_at = $7
			 WHERE id = $1`,
			id, project.Name, project.Description, project.StartMonth, project.EndMonth, assignee, now,
		)
		if err != nil {
			return apperr.FromDB(err)
		}
		// Cleared assignees read back as an empty list, same as scans do
		if project.Assignee == nil {
			project.Assignee = []string{}
		}
		project.UpdatedAt = &now
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project by id. Owned tasks (and their todos) go with it
// via cascade; shared statuses are untouched. The sentinel project cannot be
// deleted.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	if models.ScopeOf(id).Personal() {
		return apperr.Forbidden("Cannot delete system project")
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return apperr.FromDB(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return apperr.NotFound("Project with id %d not found", id)
		}
		return nil
	})
}
