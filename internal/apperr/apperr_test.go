package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
)

func TestFromDB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantKind    Kind
		wantMessage string
	}{
		{
			name:     "nil stays nil",
			err:      nil,
			wantKind: KindUnexpected,
		},
		{
			name:        "no rows becomes not found",
			err:         sql.ErrNoRows,
			wantKind:    KindNotFound,
			wantMessage: "Record not found",
		},
		{
			name:        "foreign key violation",
			err:         &pq.Error{Code: "23503", Message: "violates foreign key constraint"},
			wantKind:    KindConstraint,
			wantMessage: "Cannot perform this operation due to related data constraints",
		},
		{
			name:        "unique violation",
			err:         &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"},
			wantKind:    KindConstraint,
			wantMessage: "A record with this value already exists",
		},
		{
			name:        "not-null violation",
			err:         &pq.Error{Code: "23502", Message: "null value in column"},
			wantKind:    KindConstraint,
			wantMessage: "Required field is missing",
		},
		{
			name:        "other integrity violation",
			err:         &pq.Error{Code: "23514", Message: "check constraint"},
			wantKind:    KindConstraint,
			wantMessage: "Database constraint violation",
		},
		{
			name:        "non-integrity pq error",
			err:         &pq.Error{Code: "57014", Message: "canceling statement"},
			wantKind:    KindUnexpected,
			wantMessage: "Database error occurred",
		},
		{
			name:        "message-only foreign key match",
			err:         errors.New("ERROR: update violates foreign key constraint on tasks"),
			wantKind:    KindConstraint,
			wantMessage: "Cannot perform this operation due to related data constraints",
		},
		{
			name:        "message-only unique match",
			err:         errors.New("UNIQUE constraint failed: statuses.name"),
			wantKind:    KindConstraint,
			wantMessage: "A record with this value already exists",
		},
		{
			name:        "unclassified error",
			err:         errors.New("connection reset"),
			wantKind:    KindUnexpected,
			wantMessage: "Database error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FromDB(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("FromDB(nil) = %v, want nil", got)
				}
				return
			}
			if KindOf(got) != tt.wantKind {
				t.Errorf("KindOf = %v, want %v", KindOf(got), tt.wantKind)
			}
			if Message(got) != tt.wantMessage {
				t.Errorf("Message = %q, want %q", Message(got), tt.wantMessage)
			}
			if !errors.Is(got, tt.err) {
				t.Error("FromDB should wrap the original error")
			}
		})
	}
}

func TestFromDBPassesThroughClassified(t *testing.T) {
	t.Parallel()

	orig := NotFound("Task with id %d not found", 7)
	got := FromDB(fmt.Errorf("lookup: %w", orig))
	if KindOf(got) != KindNotFound {
		t.Errorf("KindOf = %v, want KindNotFound", KindOf(got))
	}
	if Message(got) != "Task with id 7 not found" {
		t.Errorf("Message = %q", Message(got))
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"forbidden", Forbidden("protected"), http.StatusForbidden},
		{"conflict", Conflict("duplicate"), http.StatusConflict},
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"constraint", &Error{Kind: KindConstraint, Message: "x"}, http.StatusBadRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageHidesInternals(t *testing.T) {
	t.Parallel()

	if got := Message(errors.New("pq: password authentication failed for user postgres")); got != "Internal server error" {
		t.Errorf("Message leaked internals: %q", got)
	}
}
