package api

import (
	"errors"
	"fmt"
	"net/http"

	"meal-planner/internal/app"
	"meal-planner/internal/planner"
)

// Error is an error with the HTTP status and machine-readable code it maps to.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func badRequest(err error) *Error {
	return newError(http.StatusBadRequest, "invalid_request", err)
}

// toAPIError maps domain errors to their HTTP form. Unknown errors become a 500.
func toAPIError(err error) *Error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, planner.ErrQuizIncomplete):
		return newError(http.StatusConflict, "quiz_incomplete", err)
	case errors.Is(err, planner.ErrNoSuitableTemplates):
		return newError(http.StatusUnprocessableEntity, "no_suitable_templates", err)
	case errors.Is(err, app.ErrProfileNotFound):
		return newError(http.StatusNotFound, "profile_not_found", err)
	case errors.Is(err, app.ErrUserIDRequired):
		return badRequest(err)
	default:
		return newError(http.StatusInternalServerError, "internal_error", err)
	}
}
