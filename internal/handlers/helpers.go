package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/apperr"
	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the default limit for list endpoints
	DefaultPageSize = 100
	// MaxPageSize is the maximum limit for list endpoints
	MaxPageSize = 500
)

// listResponse is the wrapper shape shared by every list endpoint.
type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// messageResponse confirms delete operations.
type messageResponse struct {
	Message string `json:"message"`
}

// fieldError is one entry of a per-field validation error list.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondDetail sends an error response carrying a detail payload.
func respondDetail(w http.ResponseWriter, status int, detail any) {
	respondJSON(w, status, map[string]any{"detail": detail})
}

// respondServiceError translates a service-layer error into its HTTP status.
// Unexpected errors are logged with full detail and surfaced generically.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("unexpected_error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	respondDetail(w, status, apperr.Message(err))
}

// respondValidationErrors turns validator failures into the per-field error
// list clients expect.
func respondValidationErrors(w http.ResponseWriter, err error) {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		fields := make([]fieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fieldError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed validation on the %q rule", fe.Tag()),
			})
		}
		respondDetail(w, http.StatusUnprocessableEntity, fields)
		return
	}
	respondDetail(w, http.StatusUnprocessableEntity, "Validation failed")
}

// decodeBody decodes a JSON request body, translating oversize bodies into
// the right status.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondDetail(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID extracts the numeric {id} path variable.
func pathID(r *http.Request, name string) (int64, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, vars[name])
	}
	return id, nil
}

// pagination parses skip/limit query parameters with defaults and clamping.
func pagination(r *http.Request) (skip, limit int) {
	skip = 0
	limit = DefaultPageSize
	if s := r.URL.Query().Get("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			if parsed > MaxPageSize {
				limit = MaxPageSize
			} else {
				limit = parsed
			}
		}
	}
	return skip, limit
}
