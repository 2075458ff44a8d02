package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/apperr"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/models"
	"go.uber.org/zap"
)

type fakeStatusStore struct {
	statuses []*models.Status
	status   *models.Status
	err      error
}

func (f *fakeStatusStore) List(ctx context.Context) ([]*models.Status, error) {
	return f.statuses, f.err
}

func (f *fakeStatusStore) GetByID(ctx context.Context, id int64) (*models.Status, error) {
	return f.status, f.err
}

func (f *fakeStatusStore) Create(ctx context.Context, status *models.Status) error {
	if f.err != nil {
		return f.err
	}
	status.ID = 1
	return nil
}

func (f *fakeStatusStore) Update(ctx context.Context, id int64, patch database.StatusPatch) (*models.Status, error) {
	return f.status, f.err
}

func (f *fakeStatusStore) Delete(ctx context.Context, id int64) error {
	return f.err
}

func newStatusRouter(store database.StatusStore) *mux.Router {
	r := mux.NewRouter()
	h := NewStatusHandler(store, zap.NewNop())
	h.RegisterRoutes(r.PathPrefix("/statuses").Subrouter())
	return r
}

func TestListStatusesWrapsItems(t *testing.T) {
	t.Parallel()

	store := &fakeStatusStore{statuses: models.FallbackStatuses(time.Now())}
	router := newStatusRouter(store)

	req := httptest.NewRequest("GET", "/statuses", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != len(models.DefaultStatusSeeds) {
		t.Errorf("items = %d, want %d", len(body.Items), len(models.DefaultStatusSeeds))
	}
	if body.Total != len(body.Items) {
		t.Errorf("total = %d, want %d", body.Total, len(body.Items))
	}
}

func TestCreateStatusValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"name":"blocked","display_name":"Blocked"}`, http.StatusCreated},
		{"with color", `{"name":"blocked","display_name":"Blocked","color":"#ff0000"}`, http.StatusCreated},
		{"project scoped", `{"name":"blocked","display_name":"Blocked","project_id":3}`, http.StatusCreated},
		{"missing name", `{"display_name":"Blocked"}`, http.StatusUnprocessableEntity},
		{"missing display name", `{"name":"blocked"}`, http.StatusUnprocessableEntity},
		{"bad color", `{"name":"blocked","display_name":"Blocked","color":"red"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newStatusRouter(&fakeStatusStore{})

			req := httptest.NewRequest("POST", "/statuses", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestCreateStatusDuplicateConflict(t *testing.T) {
	t.Parallel()

	store := &fakeStatusStore{err: apperr.Conflict("Status with this name already exists in this project")}
	router := newStatusRouter(store)

	req := httptest.NewRequest("POST", "/statuses", strings.NewReader(`{"name":"in_progress","display_name":"In Progress"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rr.Code, rr.Body.String())
	}
}
