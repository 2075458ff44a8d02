// Package apperr defines the error taxonomy exposed by the service layer and
// the mapping from persistence-boundary failures into it. Expected kinds
// carry a user-facing message; anything else stays KindUnexpected, is logged
// with full detail server-side, and never leaks internals to the caller.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindValidation
	KindConstraint
)

// Error is a classified application error. Message is safe for clients; Err
// holds the underlying cause for server-side logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden builds a KindForbidden error.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a KindValidation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, KindUnexpected for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Message returns the user-facing message for err. Unclassified errors get a
// generic message so internals never reach the client.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// HTTPStatus maps an error kind to the status code the handlers return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindValidation, KindConstraint:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Postgres error classes and codes relevant to constraint remapping.
const (
	pqClassIntegrityViolation = "23"
	pqCodeForeignKey          = "23503"
	pqCodeUnique              = "23505"
	pqCodeNotNull             = "23502"
)

// FromDB remaps a persistence error into the taxonomy. Constraint violations
// become KindConstraint with one of the four user-facing categories; missing
// rows become KindNotFound; already-classified errors pass through; anything
// else becomes a generic KindUnexpected database failure.
func FromDB(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindNotFound, Message: "Record not found", Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqCodeForeignKey:
			return &Error{Kind: KindConstraint, Message: "Cannot perform this operation due to related data constraints", Err: err}
		case pqCodeUnique:
			return &Error{Kind: KindConstraint, Message: "A record with this value already exists", Err: err}
		case pqCodeNotNull:
			return &Error{Kind: KindConstraint, Message: "Required field is missing", Err: err}
		}
		if pqErr.Code.Class() == pqClassIntegrityViolation {
			return &Error{Kind: KindConstraint, Message: "Database constraint violation", Err: err}
		}
		return &Error{Kind: KindUnexpected, Message: "Database error occurred", Err: err}
	}

	// Some drivers surface constraint failures only through the message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key constraint"):
		return &Error{Kind: KindConstraint, Message: "Cannot perform this operation due to related data constraints", Err: err}
	case strings.Contains(msg, "unique constraint"):
		return &Error{Kind: KindConstraint, Message: "A record with this value already exists", Err: err}
	case strings.Contains(msg, "not null constraint"), strings.Contains(msg, "not-null constraint"):
		return &Error{Kind: KindConstraint, Message: "Required field is missing", Err: err}
	}

	return &Error{Kind: KindUnexpected, Message: "Database error occurred", Err: err}
}
