package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abz-group/portal-api/internal/access"
	"github.com/abz-group/portal-api/internal/application/reimbursement"
	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/pkg/validate"
	"github.com/abz-group/portal-api/internal/transport/http/middleware"
)

// ReimbursementHandler handles the expense-refund workflow.
type ReimbursementHandler struct {
	svc reimbursement.Service
}

func NewReimbursementHandler(svc reimbursement.Service) *ReimbursementHandler {
	return &ReimbursementHandler{svc: svc}
}

func principalFrom(r *http.Request) (access.Principal, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return access.Principal{}, false
	}
	return access.Principal{UserID: claims.UserID, Role: claims.Role}, true
}

func (h *ReimbursementHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateReimbursementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.Create(r.Context(), p.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ReimbursementHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	list, err := h.svc.ListOwn(r.Context(), p.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

// ListByStatus is the manager review queue, newest first.
func (h *ReimbursementHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = domain.ReimbursementPending
	}
	list, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

func (h *ReimbursementHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rb, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rb)
}

func (h *ReimbursementHandler) Decide(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.DecideReimbursementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rb, err := h.svc.Decide(r.Context(), chi.URLParam(r, "id"), p, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rb)
}

func (h *ReimbursementHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rb, err := h.svc.MarkPaid(r.Context(), chi.URLParam(r, "id"), p.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rb)
}
