package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abz-group/portal-api/internal/application/auth"
	"github.com/abz-group/portal-api/internal/pkg/validate"
	"github.com/abz-group/portal-api/internal/verification"
)

// VerificationHandler exposes the passwordless code flow plus the admin
// inspection endpoints.
type VerificationHandler struct {
	svc   auth.Service
	store *verification.Store
}

func NewVerificationHandler(svc auth.Service, store *verification.Store) *VerificationHandler {
	return &VerificationHandler{svc: svc, store: store}
}

// Send issues a verification code and delivers it over the requested channel.
func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req auth.SendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.SendVerification(r.Context(), req)
	if err != nil {
		// A delivery failure still issued the code; keep the diagnostic body
		// (code and preview in non-production) so the caller can finish the
		// flow without the channel.
		if errors.Is(err, verification.ErrDeliveryFailed) && result != nil {
			writeJSON(w, http.StatusBadGateway, result)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Check consumes a code and, on success, returns a bearer token and session.
func (h *VerificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req auth.CheckVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.CheckVerification(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Bearer:       result.Bearer,
		RefreshToken: result.RefreshToken,
		Session:      result.Session,
		User:         result.Session.User,
	})
}

// ListActive returns every non-consumed code currently registered. Admin only;
// code values are redacted.
func (h *VerificationHandler) ListActive(w http.ResponseWriter, _ *http.Request) {
	codes := h.store.ListActive()
	out := make([]map[string]interface{}, 0, len(codes))
	for _, c := range codes {
		out = append(out, map[string]interface{}{
			"identifier": c.Identifier,
			"method":     c.Method,
			"issued_at":  c.IssuedAt,
			"expires_at": c.ExpiresAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// Peek returns the full state of the latest code for an identifier, including
// whether it was consumed. Admin only.
func (h *VerificationHandler) Peek(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "identifier query parameter required")
		return
	}
	c, ok := h.store.PeekLatest(identifier)
	if !ok {
		writeError(w, http.StatusNotFound, "no code found for identifier")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"identifier": c.Identifier,
		"method":     c.Method,
		"issued_at":  c.IssuedAt,
		"expires_at": c.ExpiresAt,
		"used":       c.Used,
	})
}
