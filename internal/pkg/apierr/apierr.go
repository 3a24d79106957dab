package apierr

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
)

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
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps a service error onto an HTTP status and a stable code. fallback
// is used for errors of no known kind.
func From(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case apperrors.IsUnsupported(err):
		return New(http.StatusUnprocessableEntity, "share_unsupported", err)
	case apperrors.IsDecode(err):
		return New(http.StatusBadRequest, "invalid_share_token", err)
	case apperrors.IsInvalidResponse(err):
		return New(http.StatusBadGateway, "invalid_ai_response", err)
	case apperrors.IsGateway(err):
		return New(http.StatusBadGateway, "ai_unavailable", err)
	case errors.Is(err, apperrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	}
	if fallback == "" {
		fallback = "internal_error"
	}
	return New(http.StatusInternalServerError, fallback, err)
}
