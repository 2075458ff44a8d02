package models

import "time"

// Task represents a task on the board. Status carries the status name as a
// denormalized string; StatusID is the resolved reference to a shared status
// row and stays nil for personal tasks or unknown status names.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	StatusID    *int64     `json:"status_id"`
	ProjectID   int64      `json:"project_id"`
	Assignee    *string    `json:"assignee"`
	Order       int        `json:"order"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Scope returns the task's project scope.
func (t *Task) Scope() ProjectScope {
	return ScopeOf(t.ProjectID)
}
