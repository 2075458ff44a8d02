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

// StatusRepository handles status database operations, including resolving a
// status name to the shared status reference stored on tasks.
type StatusRepository struct {
	db *DB
}

// NewStatusRepository creates a new status repository.
func NewStatusRepository(db *DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Resolve maps a status name and project scope to the status reference to
// store on a task. Personal tasks never bind to a status row. Project tasks
// bind to the shared status with a matching name when one exists; an unknown
// name resolves to nil so historical status strings never block writes.
func (r *StatusRepository) Resolve(ctx context.Context, name string, scope models.ProjectScope) (*int64, error) {
	if scope.Personal() {
		return nil, nil
	}
	return resolveSharedStatusID(ctx, r.db, name)
}

// resolveSharedStatusID looks up a shared (NULL-scope) status by name.
// Missing names resolve to nil without error.
func resolveSharedStatusID(ctx context.Context, q Querier, name string) (*int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM statuses WHERE name = $1 AND project_id IS NULL`, name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve status %q: %w", name, err)
	}
	return &id, nil
}

const statusColumns = `id, name, display_name, sort_order, color, project_id, created_at`

func scanStatus(row interface{ Scan(...any) error }) (*models.Status, error) {
	status := &models.Status{}
	var projectID sql.NullInt64
	if err := row.Scan(
		&status.ID,
		&status.Name,
		&status.DisplayName,
		&status.Order,
		&status.Color,
		&projectID,
		&status.CreatedAt,
	); err != nil {
		return nil, err
	}
	if projectID.Valid {
		status.ProjectID = &projectID.Int64
	}
	return status, nil
}

// List returns all shared statuses ordered by sort order. A store that has
// not been seeded yet gets the canonical fallback set with synthetic ids so
// clients can bootstrap before the seed runs.
func (r *StatusRepository) List(ctx context.Context) ([]*models.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE project_id IS NULL ORDER BY sort_order ASC`,
	)
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	defer rows.Close()

	var statuses []*models.Status
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statuses: %w", err)
	}

	if len(statuses) == 0 {
		return models.FallbackStatuses(time.Now()), nil
	}
	return statuses, nil
}

// GetByID retrieves a status by id.
func (r *StatusRepository) GetByID(ctx context.Context, id int64) (*models.Status, error) {
	status, err := scanStatus(r.db.QueryRowContext(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Status with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return status, nil
}

// Create persists a new status. A status with the same name in the same
// scope (a concrete project, or the shared NULL scope) is a conflict.
func (r *StatusRepository) Create(ctx context.Context, status *models.Status) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		var err error
		if status.ProjectID == nil {
			err = tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM statuses WHERE name = $1 AND project_id IS NULL)`,
				status.Name,
			).Scan(&exists)
		} else {
			err = tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM statuses WHERE name = $1 AND project_id = $2)`,
				status.Name, *status.ProjectID,
			).Scan(&exists)
		}
		if err != nil {
			return apperr.FromDB(err)
		}
		if exists {
			return apperr.Conflict("Status with this name already exists in this project")
		}

		if status.Color == "" {
			status.Color = models.DefaultStatusColor
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO statuses (name, display_name, sort_order, color, project_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			status.Name, status.DisplayName, status.Order, status.Color, status.ProjectID,
		).Scan(&status.ID, &status.CreatedAt)
		if err != nil {
			return apperr.FromDB(err)
		}
		return nil
	})
}

// StatusPatch carries the fields present in a status update request. Nil
// fields are left untouched.
type StatusPatch struct {
	Name        *string
	DisplayName *string
	Order       *int
	Color       *string
}

// Update applies a partial update to a status by id.
func (r *StatusRepository) Update(ctx context.Context, id int64, patch StatusPatch) (*models.Status, error) {
	var updated *models.Status
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		status, err := scanStatus(tx.QueryRowContext(ctx,
			`SELECT `+statusColumns+` FROM statuses WHERE id = $1`, id,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Status with id %d not found", id)
		}
		if err != nil {
			return apperr.FromDB(err)
		}

		if patch.Name != nil {
			status.Name = *patch.Name
		}
		if patch.DisplayName != nil {
			status.DisplayName = *patch.DisplayName
		}
		if patch.Order != nil {
			status.Order = *patch.Order
		}
		if patch.Color != nil {
			status.Color = *patch.Color
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE statuses SET name = $2, display_name = $3, sort_order = $4, color = $5 WHERE id = $1`,
			id, status.Name, status.DisplayName, status.Order, status.Color,
		)
		if err != nil {
			return apperr.FromDB(err)
		}
		updated = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a status by id.
func (r *StatusRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM statuses WHERE id = $1`, id)
		if err != nil {
			return apperr.FromDB(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return apperr.NotFound("Status with id %d not found", id)
		}
		return nil
	})
}
