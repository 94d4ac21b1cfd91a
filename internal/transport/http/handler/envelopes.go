package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/verification"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login and verification-check responses.
type AuthEnvelope struct {
	Bearer       string          `json:"Bearer,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
	User         *domain.User    `json:"user,omitempty"`
	Message      string          `json:"message,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// PaginatedUsersEnvelope wraps cursor-paginated user list responses.
type PaginatedUsersEnvelope struct {
	Data       []domain.User `json:"data"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps service errors to HTTP statuses. Verification check
// failures keep their distinct reasons in the body; generic auth failures
// stay opaque.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, verification.ErrNotFound):
		writeError(w, http.StatusNotFound, "no code found for identifier")
	case errors.Is(err, verification.ErrExpired):
		writeError(w, http.StatusGone, "code expired")
	case errors.Is(err, verification.ErrMismatch):
		writeError(w, http.StatusUnprocessableEntity, "code does not match")
	case errors.Is(err, verification.ErrAlreadyUsed):
		writeError(w, http.StatusConflict, "code already used")
	case errors.Is(err, verification.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "delivery failed")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
