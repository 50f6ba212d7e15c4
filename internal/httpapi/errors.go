package httpapi

import (
	"errors"
	"net/http"

	"github.com/runoshun/focusday/internal/domain"
)

type errorBody struct {
	Error  string                `json:"error"`
	Action domain.AdvisoryAction `json:"action,omitempty"`
	Kind   domain.AdvisoryKind   `json:"kind,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn),
		errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDayLocked),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrTaskCompleted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAdvisoryFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidSystem):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var adv *domain.AdvisoryError
	if errors.As(err, &adv) {
		body.Error = adv.Message
		body.Action = adv.Action
		body.Kind = adv.Kind
	}
	writeJSON(w, statusFor(err), body)
}
