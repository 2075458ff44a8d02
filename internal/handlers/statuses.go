package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/models"
	"github.com/taskboard/api/internal/validation"
	"go.uber.org/zap"
)

// StatusHandler handles status-related requests
type StatusHandler struct {
	statuses database.StatusStore
	logger   *zap.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(statuses database.StatusStore, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{statuses: statuses, logger: logger}
}

// RegisterRoutes registers status routes on the given router.
func (h *StatusHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListStatuses).Methods("GET")
	r.HandleFunc("", h.CreateStatus).Methods("POST")
	r.HandleFunc("/{id}", h.GetStatus).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateStatus).Methods("PUT")
	r.HandleFunc("/{id}", h.DeleteStatus).Methods("DELETE")
}

// CreateStatusRequest represents a create status request
type CreateStatusRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=255"`
	Order       int    `json:"order"`
	Color       string `json:"color" validate:"omitempty,hexcolor6"`
	ProjectID   *int64 `json:"project_id"`
}

// UpdateStatusRequest represents a partial status update request
type UpdateStatusRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Order       *int    `json:"order"`
	Color       *string `json:"color"`
}

// ListStatuses lists the shared statuses in display order. A not-yet-seeded
// store serves the canonical fallback set.
func (h *StatusHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.statuses.List(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Items: statuses, Total: len(statuses), Skip: 0, Limit: len(statuses)})
}

// GetStatus retrieves a status by id.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid status ID")
		return
	}

	status, err := h.statuses.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// CreateStatus creates a new status. A duplicate name within the same scope
// is a conflict.
func (h *StatusHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req CreateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondValidationErrors(w, err)
		return
	}

	status := &models.Status{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Order:       req.Order,
		Color:       req.Color,
		ProjectID:   req.ProjectID,
	}
	if err := h.statuses.Create(r.Context(), status); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("status_created", zap.Int64("status_id", status.ID), zap.String("name", status.Name))
	respondJSON(w, http.StatusCreated, status)
}

// UpdateStatus applies a partial update to a status.
func (h *StatusHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid status ID")
		return
	}

	var req UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := database.StatusPatch{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Order:       req.Order,
		Color:       req.Color,
	}
	status, err := h.statuses.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("status_updated", zap.Int64("status_id", id))
	respondJSON(w, http.StatusOK, status)
}

// DeleteStatus removes a status by id.
func (h *StatusHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Invalid status ID")
		return
	}

	if err := h.statuses.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("status_deleted", zap.Int64("status_id", id))
	respondJSON(w, http.StatusOK, messageResponse{Message: "Status deleted successfully"})
}
