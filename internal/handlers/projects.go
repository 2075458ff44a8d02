package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/models"
	"github.com/taskboard/api/internal/validation"
	"go.uber.org/zap"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projects database.ProjectStore
	logger   *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects database.ProjectStore, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

// RegisterRoutes registers project routes on the given router. The router
// should already carry the /projects prefix.
func (h *ProjectHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListProjects).Methods("GET")
	r.HandleFunc("", h.CreateProject).Methods("POST")
	r.HandleFunc("/{id}", h.GetProject).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateProject).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteProject).Methods("DELETE")
}

// CreateProjectRequest represents a create project request
type CreateProjectRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description *string  `json:"description"`
	StartMonth  *string  `json:"start_month" validate:"omitempty,month"`
	EndMonth    *string  `json:"end_month" validate:"omitempty,month"`
	Assignee    []string `json:"assignee"`
}

// UpdateProjectRequest represents a partial project update request
type UpdateProjectRequest struct {
	Name        *string                   `json:"name"`
	Description models.Optional[string]   `json:"description"`
	StartMonth  models.Optional[string]   `json:"start_month"`
	EndMonth    models.Optional[string]   `json:"end_month"`
	Assignee    models.Optional[[]string] `json:"assignee"`
}

// ListProjects lists projects with filtering, sorting and pagination.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	skip, limit := pagination(r)

	sortOrder := query.Get("sort_order")
	if !validation.ValidSortOrder(sortOrder) {
		respondDetail(w, http.StatusBadRequest, "sort_order must be 'asc' or 'desc'")
		return
	}

	filter := database.ProjectFilter{
		Assignee:   query.Get("assignee"),
		Name:       query.Get("name"),
		StartMonth: query.Get("start_month"),
		EndMonth:   query.Get("end_month"),
		SortBy:     query.Get("sort_by"),
		SortOrder:  sortOrder,
		Skip:       skip,
		Limit:      limit,
	}

	projects, total, err := h.projects.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, listResponse{Items: projects, Total: total, Skip: skip, Limit: limit})
}

// GetProject retrieves a project by id.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// CreateProject creates a new project.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondValidationErrors(w, err)
		return
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		StartMonth:  req.StartMonth,
		EndMonth:    req.EndMonth,
		Assignee:    req.Assignee,
	}
	if err := h.projects.Create(r.Context(), project); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("project_created", zap.Int64("project_id", project.ID))
	respondJSON(w, http.StatusCreated, project)
}

// UpdateProject applies a partial update to a project.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req UpdateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	for _, month := range []models.Optional[string]{req.StartMonth, req.EndMonth} {
		if month.Valid && !validation.ValidMonth(month.Value) {
			respondDetail(w, http.StatusUnprocessableEntity, []fieldError{
				{Field: "start_month/end_month", Message: "must be a YYYY-MM month label"},
			})
			return
		}
	}

	patch := database.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		StartMonth:  req.StartMonth,
		EndMonth:    req.EndMonth,
		Assignee:    req.Assignee,
	}
	project, err := h.projects.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("project_updated", zap.Int64("project_id", id))
	respondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project; its tasks and their todos cascade.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("project_deleted", zap.Int64("project_id", id))
	respondJSON(w, http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}
