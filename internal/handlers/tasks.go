package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/models"
	"github.com/taskboard/api/internal/validation"
	"go.uber.org/zap"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	tasks  database.TaskStore
	logger *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks database.TaskStore, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// RegisterRoutes registers task routes on the given router.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/order", h.RepositionTask).Methods("PUT")
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	StatusID    *int64  `json:"status_id"`
	Order       int     `json:"order"`
	Completed   bool    `json:"completed"`
	ProjectID   *int64  `json:"project_id" validate:"required"`
	Assignee    *string `json:"assignee"`
}

// UpdateTaskRequest represents a partial task update request
type UpdateTaskRequest struct {
	Title       *string                 `json:"title"`
	Description models.Optional[string] `json:"description"`
	Status      *string                 `json:"status"`
	Order       *int                    `json:"order"`
	Completed   *bool                   `json:"completed"`
	ProjectID   *int64                  `json:"project_id"`
	Assignee    models.Optional[string] `json:"assignee"`
}

// RepositionTaskRequest carries the 0-based display index for the swap-based
// reorder endpoint.
type RepositionTaskRequest struct {
	NewIndex *int `json:"new_index" validate:"required"`
}

// parseProjectIDs splits a comma-separated project id list, skipping empty
// segments.
func parseProjectIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ListTasks lists tasks filtered by project scope and assignee, ordered by
// status group then per-group order.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, limit := pagination(r)

	filter := database.TaskFilter{
		Assignee: query.Get("assignee"),
		Skip:     skip,
		Limit:    limit,
	}

	if raw := query.Get("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid project_id")
			return
		}
		filter.ProjectID = &id
	} else if raw := query.Get("project_ids"); raw != "" {
		ids, err := parseProjectIDs(raw)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid project_ids")
			return
		}
		filter.ProjectIDs = ids
	}

	tasks, total, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{Items: tasks, Total: total, Skip: skip, Limit: limit})
}

// GetTask retrieves a task by id.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.tasks.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// CreateTask creates a new task. Personal tasks (sentinel project id) must
// carry an assignee; the status reference is resolved from the status name
// when not given explicitly.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondValidationErrors(w, err)
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StatusID:    req.StatusID,
		ProjectID:   *req.ProjectID,
		Assignee:    req.Assignee,
		Order:       req.Order,
		Completed:   req.Completed,
	}
	if err := h.tasks.Create(r.Context(), task); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("task_created",
		zap.Int64("task_id", task.ID),
		zap.Int64("project_id", task.ProjectID),
		zap.String("status", task.Status),
	)
	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask applies a partial update to a task. An order value in the patch
// runs the shift-based reorder within the destination group.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := database.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Order:       req.Order,
		Completed:   req.Completed,
		ProjectID:   req.ProjectID,
		Assignee:    req.Assignee,
	}
	task, err := h.tasks.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("task_updated", zap.Int64("task_id", id))
	respondJSON(w, http.StatusOK, task)
}

// RepositionTask moves a task to a display index within its status group via
// the swap-based reorder path.
func (h *TaskHandler) RepositionTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req RepositionTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondValidationErrors(w, err)
		return
	}

	task, err := h.tasks.Reposition(r.Context(), id, *req.NewIndex)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("task_repositioned",
		zap.Int64("task_id", id),
		zap.Int("new_index", *req.NewIndex),
	)
	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task; its todos cascade.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("task_deleted", zap.Int64("task_id", id))
	respondJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}
