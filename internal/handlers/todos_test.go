package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/taskboard/api/internal/apperr"
	"github.com/taskboard/api/internal/database"
	"github.com/taskboard/api/internal/models"
	"go.uber.org/zap"
)

type fakeTodoStore struct {
	lastFilter database.TodoFilter
	lastPatch  database.TodoPatch
	lastTaskID int64
	todo       *models.Todo
	err        error
}

func (f *fakeTodoStore) ListAll(ctx context.Context, filter database.TodoFilter) ([]*models.TodoListItem, int, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return []*models.TodoListItem{}, 0, nil
}

func (f *fakeTodoStore) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	return f.todo, f.err
}

func (f *fakeTodoStore) ListByTask(ctx context.Context, taskID int64) ([]*models.Todo, error) {
	f.lastTaskID = taskID
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Todo{}, nil
}

func (f *fakeTodoStore) CreateForTask(ctx context.Context, taskID int64, todo *models.Todo) error {
	f.lastTaskID = taskID
	if f.err != nil {
		return f.err
	}
	todo.ID = 1
	todo.TaskID = taskID
	return nil
}

func (f *fakeTodoStore) Update(ctx context.Context, id int64, patch database.TodoPatch) (*models.Todo, error) {
	f.lastPatch = patch
	return f.todo, f.err
}

func (f *fakeTodoStore) Delete(ctx context.Context, id int64) error {
	return f.err
}

func newTodoRouter(store database.TodoStore) *mux.Router {
	r := mux.NewRouter()
	h := NewTodoHandler(store, zap.NewNop())
	h.RegisterRoutes(r.PathPrefix("/todos").Subrouter())
	h.RegisterTaskRoutes(r.PathPrefix("/tasks").Subrouter())
	return r
}

func TestListTodosCompletedFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       *bool
	}{
		{"absent", "", http.StatusOK, nil},
		{"true", "completed=true", http.StatusOK, boolPtr(true)},
		{"false", "completed=false", http.StatusOK, boolPtr(false)},
		{"invalid", "completed=maybe", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeTodoStore{}
			router := newTodoRouter(store)

			req := httptest.NewRequest("GET", "/todos?"+tt.query, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			got := store.lastFilter.Completed
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Completed = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Completed = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestCreateTaskTodoCompletedDateImpliesCompleted(t *testing.T) {
	t.Parallel()

	store := &fakeTodoStore{}
	router := newTodoRouter(store)

	body := `{"title":"Review draft","completed_date":"2026-08-30"}`
	req := httptest.NewRequest("POST", "/tasks/9/todos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	if store.lastTaskID != 9 {
		t.Errorf("taskID = %d, want 9", store.lastTaskID)
	}

	var created models.Todo
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !created.Completed {
		t.Error("todo with completed_date should be marked completed")
	}
	if created.CompletedDate == nil {
		t.Error("completed_date should be stored")
	}
}

func TestCreateTaskTodoMissingTask(t *testing.T) {
	t.Parallel()

	store := &fakeTodoStore{err: apperr.NotFound("Task not found")}
	router := newTodoRouter(store)

	req := httptest.NewRequest("POST", "/tasks/99/todos", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestUpdateTodoCompletedDatePatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
	}{
		{"value completes", `{"completed_date":"2026-08-30"}`, true, true},
		{"null reopens", `{"completed_date":null}`, true, false},
		{"absent leaves untouched", `{"title":"t"}`, false, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeTodoStore{todo: &models.Todo{ID: 3, Title: "t"}}
			router := newTodoRouter(store)

			req := httptest.NewRequest("PUT", "/todos/3", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
			}
			got := store.lastPatch.CompletedDate
			if got.Set != tt.wantSet || got.Valid != tt.wantValid {
				t.Errorf("CompletedDate = {Set:%v Valid:%v}, want {Set:%v Valid:%v}",
					got.Set, got.Valid, tt.wantSet, tt.wantValid)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}
