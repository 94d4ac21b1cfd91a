package reimbursement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abz-group/portal-api/internal/access"
	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateReimbursementRequest) (*domain.Reimbursement, error)
	Get(ctx context.Context, reimbursementID string, p access.Principal) (*domain.Reimbursement, error)
	ListOwn(ctx context.Context, userID string) ([]domain.Reimbursement, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Reimbursement, error)
	Decide(ctx context.Context, reimbursementID string, decider access.Principal, req domain.DecideReimbursementRequest) (*domain.Reimbursement, error)
	MarkPaid(ctx context.Context, reimbursementID, adminID string) (*domain.Reimbursement, error)
}

type reimbursementStore interface {
	Put(ctx context.Context, r *domain.Reimbursement) error
	Get(ctx context.Context, reimbursementID string) (*domain.Reimbursement, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Reimbursement, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Reimbursement, error)
	Update(ctx context.Context, reimbursementID string, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	repo     reimbursementStore
	userRepo userStore
	mailer   mailer
}

func NewService(repo reimbursementStore, userRepo userStore, mailer mailer) Service {
	return &service{repo: repo, userRepo: userRepo, mailer: mailer}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateReimbursementRequest) (*domain.Reimbursement, error) {
	now := time.Now().UTC()
	r := &domain.Reimbursement{
		ReimbursementID: id.New(),
		UserID:          userID,
		Description:     req.Description,
		Category:        req.Category,
		AmountCents:     req.AmountCents,
		Currency:        req.Currency,
		Status:          domain.ReimbursementPending,
		ReceiptFileID:   req.ReceiptFileID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns a request. Requesters see only their own; managers and admins
// see all.
func (s *service) Get(ctx context.Context, reimbursementID string, p access.Principal) (*domain.Reimbursement, error) {
	r, err := s.repo.Get(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if r.UserID != p.UserID && !access.AtLeast(p.Role, domain.RoleManager) {
		return nil, fmt.Errorf("not your request: %w", domain.ErrForbidden)
	}
	return r, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]domain.Reimbursement, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]domain.Reimbursement, error) {
	switch status {
	case domain.ReimbursementPending, domain.ReimbursementApproved,
		domain.ReimbursementRejected, domain.ReimbursementPaid:
	default:
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrBadRequest)
	}
	return s.repo.ListByStatus(ctx, status)
}

// Decide approves or rejects a pending request. Deciders cannot rule on their
// own requests, manager tier required (enforced again here even though the
// route already guards it).
func (s *service) Decide(ctx context.Context, reimbursementID string, decider access.Principal, req domain.DecideReimbursementRequest) (*domain.Reimbursement, error) {
	r, err := s.repo.Get(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReimbursementPending {
		return nil, fmt.Errorf("request already %s: %w", r.Status, domain.ErrConflict)
	}
	if r.UserID == decider.UserID {
		return nil, fmt.Errorf("cannot decide own request: %w", domain.ErrForbidden)
	}
	if !access.AtLeast(decider.Role, domain.RoleManager) {
		return nil, fmt.Errorf("manager tier required: %w", domain.ErrForbidden)
	}

	status := domain.ReimbursementRejected
	if req.Approve {
		status = domain.ReimbursementApproved
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":        status,
		"decision_note": req.Note,
		"decided_by":    decider.UserID,
		"decided_at":    now.Format(time.RFC3339),
	}
	if err := s.repo.Update(ctx, reimbursementID, updates); err != nil {
		return nil, err
	}
	r.Status = status
	r.DecisionNote = req.Note
	r.DecidedBy = decider.UserID
	r.DecidedAt = &now

	s.notifyDecision(ctx, r)
	return r, nil
}

// MarkPaid moves an approved request to paid. Admin-only at the route level.
func (s *service) MarkPaid(ctx context.Context, reimbursementID, adminID string) (*domain.Reimbursement, error) {
	r, err := s.repo.Get(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.ReimbursementApproved {
		return nil, fmt.Errorf("only approved requests can be paid, current status %s: %w", r.Status, domain.ErrConflict)
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":  domain.ReimbursementPaid,
		"paid_at": now.Format(time.RFC3339),
	}
	if err := s.repo.Update(ctx, reimbursementID, updates); err != nil {
		return nil, err
	}
	r.Status = domain.ReimbursementPaid
	r.PaidAt = &now
	slog.Info("reimbursement paid", "reimbursement_id", reimbursementID, "by", adminID)
	return r, nil
}

// notifyDecision emails the requester about the outcome. Best effort: a mail
// failure never rolls back the decision.
func (s *service) notifyDecision(ctx context.Context, r *domain.Reimbursement) {
	u, err := s.userRepo.Get(ctx, r.UserID)
	if err != nil {
		slog.Warn("could not load requester for decision email", "user_id", r.UserID, "err", err)
		return
	}
	subject := "Reembolso atualizado - Painel ABZ"
	body := fmt.Sprintf("Sua solicitação de reembolso (%s) foi %s.", r.Description, statusPT(r.Status))
	if r.DecisionNote != "" {
		body += "\nObservação: " + r.DecisionNote
	}
	if err := s.mailer.SendEmail(u.Email, subject, body); err != nil {
		slog.Warn("decision email failed", "reimbursement_id", r.ReimbursementID, "err", err)
	}
}

func statusPT(status string) string {
	switch status {
	case domain.ReimbursementApproved:
		return "aprovada"
	case domain.ReimbursementRejected:
		return "rejeitada"
	case domain.ReimbursementPaid:
		return "paga"
	}
	return status
}
