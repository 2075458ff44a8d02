package models

import "time"

// Todo represents a checklist item owned by a task. CompletedDate presence is
// the source of truth for the Completed flag when both arrive in one update.
type Todo struct {
	ID            int64      `json:"id"`
	TaskID        int64      `json:"task_id"`
	Title         string     `json:"title"`
	Completed     bool       `json:"completed"`
	Order         int        `json:"order"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	CompletedDate *time.Time `json:"completed_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// PersonalProjectLabel is shown in place of a project name for todos whose
// owning task is personal.
const PersonalProjectLabel = "個人タスク"

// TodoListItem is a todo joined with its owning task and (for project tasks)
// that task's project, as served by the global todo listing.
type TodoListItem struct {
	Todo
	TaskName    *string `json:"task_name"`
	ProjectID   *int64  `json:"project_id"`
	ProjectName *string `json:"project_name"`
}
