package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/models"
	"github.com/taskboard/api/internal/validation"
	"go.uber.org/zap"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	todos  database.TodoStore
	logger *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todos database.TodoStore, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: logger}
}

// RegisterRoutes registers todo routes on the given router. The router
// should already carry the /todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("/{id}", h.GetTodo).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
}

// RegisterTaskRoutes registers the task-scoped todo routes. The router
// should already carry the /tasks prefix.
func (h *TodoHandler) RegisterTaskRoutes(r *mux.Router) {
	r.HandleFunc("/{id}/todos", h.ListTaskTodos).Methods("GET")
	r.HandleFunc("/{id}/todos", h.CreateTaskTodo).Methods("POST")
}

// CreateTodoRequest represents a create todo request
type CreateTodoRequest struct {
	Title         string       `json:"title" validate:"required,min=1,max=255"`
	Completed     bool         `json:"completed"`
	Order         int          `json:"order"`
	ScheduledDate *models.Date `json:"scheduled_date"`
	CompletedDate *models.Date `json:"completed_date"`
}

// UpdateTodoRequest represents a partial todo update request. A present
// completed_date drives the completed flag: a value completes the todo, an
// explicit null reopens it.
type UpdateTodoRequest struct {
	Title         *string                      `json:"title"`
	Completed     *bool                        `json:"completed"`
	Order         *int                         `json:"order"`
	ScheduledDate models.Optional[models.Date] `json:"scheduled_date"`
	CompletedDate models.Optional[models.Date] `json:"completed_date"`
}

func optionalDateToTime(in models.Optional[models.Date]) models.Optional[time.Time] {
	return models.Optional[time.Time]{Set: in.Set, Valid: in.Valid, Value: in.Value.Time}
}

// ListTodos lists todos across all tasks with their owning task and project
// names for display.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, limit := pagination(r)

	sortOrder := query.Get("sort_order")
	if !validation.ValidSortOrder(sortOrder) {
		respondDetail(w, http.StatusBadRequest, "sort_order must be 'asc' or 'desc'")
		return
	}

	filter := database.TodoFilter{
		Title:       query.Get("title"),
		TaskName:    query.Get("task_name"),
		ProjectName: query.Get("project_name"),
		SortBy:      query.Get("sort_by"),
		SortOrder:   sortOrder,
		Skip:        skip,
		Limit:       limit,
	}
	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "Invalid completed filter")
			return
		}
		filter.Completed = &completed
	}

	items, total, err := h.todos.ListAll(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Skip: skip, Limit: limit})
}

// GetTodo retrieves a todo by id.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	todo, err := h.todos.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, todo)
}

// ListTaskTodos returns a task's checklist in order.
func (h *TodoHandler) ListTaskTodos(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	todos, err := h.todos.ListByTask(r.Context(), taskID)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, todos)
}

// CreateTaskTodo creates a todo under the given task.
func (h *TodoHandler) CreateTaskTodo(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req CreateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondValidationErrors(w, err)
		return
	}

	todo := &models.Todo{
		Title:     req.Title,
		Completed: req.Completed,
		Order:     req.Order,
	}
	if req.ScheduledDate != nil {
		todo.ScheduledDate = &req.ScheduledDate.Time
	}
	if req.CompletedDate != nil {
		todo.CompletedDate = &req.CompletedDate.Time
		todo.Completed = true
	}

	if err := h.todos.CreateForTask(r.Context(), taskID, todo); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("todo_created", zap.Int64("todo_id", todo.ID), zap.Int64("task_id", taskID))
	respondJSON(w, http.StatusCreated, todo)
}

// UpdateTodo applies a partial update to a todo.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	var req UpdateTodoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := database.TodoPatch{
		Title:         req.Title,
		Completed:     req.Completed,
		Order:         req.Order,
		ScheduledDate: optionalDateToTime(req.ScheduledDate),
		CompletedDate: optionalDateToTime(req.CompletedDate),
	}
	todo, err := h.todos.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("todo_updated", zap.Int64("todo_id", id))
	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo removes a todo by id.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	if err := h.todos.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("todo_deleted", zap.Int64("todo_id", id))
	respondJSON(w, http.StatusOK, messageResponse{Message: "Todo deleted successfully"})
}
