package database

import (
	"context"
	"fmt"

	"github.com/taskboard/api/internal/models"
)

// schemaStatements provision the schema. Every statement is idempotent so
// migrate can run on every deploy before the server accepts traffic.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		start_month TEXT,
		end_month TEXT,
		assignee TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS statuses (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		display_name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		color TEXT NOT NULL DEFAULT '#667eea',
		project_id BIGINT REFERENCES projects(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'not_started',
		status_id BIGINT REFERENCES statuses(id),
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		assignee TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id BIGSERIAL PRIMARY KEY,
		task_id BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		scheduled_date TIMESTAMPTZ,
		completed_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,
	// Shared statuses live in the NULL scope; uniqueness needs partial
	// indexes because NULLs never collide in a plain unique index.
	`CREATE UNIQUE INDEX IF NOT EXISTS statuses_shared_name_key
		ON statuses (name) WHERE project_id IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS statuses_project_name_key
		ON statuses (name, project_id) WHERE project_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS tasks_project_id_idx ON tasks (project_id)`,
	`CREATE INDEX IF NOT EXISTS tasks_status_id_idx ON tasks (status_id)`,
	`CREATE INDEX IF NOT EXISTS todos_task_id_idx ON todos (task_id)`,
}

// Migrate provisions the schema and guarantees the personal-task sentinel
// project row exists so task foreign keys hold for personal tasks.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration statement: %w", err)
		}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		models.PersonalProjectID, models.PersonalProjectLabel,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure personal project row: %w", err)
	}
	return nil
}

// SeedStatuses inserts the seven canonical shared statuses, skipping any that
// already exist. Safe to run repeatedly.
func (db *DB) SeedStatuses(ctx context.Context) error {
	for _, seed := range models.DefaultStatusSeeds {
		_, err := db.ExecContext(ctx,
			`INSERT INTO statuses (name, display_name, sort_order, color, project_id)
			 VALUES ($1, $2, $3, $4, NULL)
			 ON CONFLICT (name) WHERE project_id IS NULL DO NOTHING`,
			seed.Name, seed.DisplayName, seed.Order, seed.Color,
		)
		if err != nil {
			return fmt.Errorf("failed to seed status %q: %w", seed.Name, err)
		}
	}
	return nil
}
