package models

import "time"

// Project represents a project that owns tasks. Assignees are stored in the
// database as a JSON-encoded string array and surfaced as a slice.
type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	StartMonth  *string    `json:"start_month"`
	EndMonth    *string    `json:"end_month"`
	Assignee    []string   `json:"assignee"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
