package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abz-group/portal-api/internal/domain"
)

// ErrDeliveryFailed marks a send whose code was issued but could not be
// delivered. Distinct from code-validation failures so the UI can offer a
// resend instead of "wrong code" guidance.
var ErrDeliveryFailed = errors.New("delivery failed")

// EmailSender delivers a verification email.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// SMSSender delivers a verification SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// DeliveryResult reports the outcome of a send. PreviewURL is populated only
// on non-production diagnostic delivery paths; production responses never
// echo the code back.
type DeliveryResult struct {
	Success    bool   `json:"success"`
	Code       string `json:"code,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Service orchestrates code issuance plus delivery. Issuance and delivery are
// sequenced but failure-independent: a code that could not be delivered stays
// registered, so the user may still submit it if they learned it through
// another channel (e.g. the non-production diagnostic log).
type Service struct {
	store      *Store
	mailer     EmailSender
	sms        SMSSender
	production bool
}

func NewService(store *Store, mailer EmailSender, sms SMSSender, production bool) *Service {
	return &Service{store: store, mailer: mailer, sms: sms, production: production}
}

// Send issues a code for identifier and hands it to the delivery collaborator
// for the given method. The delivery call is bound by ctx; a hung provider
// must not be mistaken for a failed issuance.
func (s *Service) Send(ctx context.Context, identifier, method string) (*DeliveryResult, error) {
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required: %w", domain.ErrBadRequest)
	}

	var deliver func(ctx context.Context, c Code) error
	switch method {
	case MethodEmail:
		deliver = s.deliverEmail
	case MethodSMS:
		deliver = s.deliverSMS
	default:
		return nil, fmt.Errorf("unknown delivery method %q: %w", method, domain.ErrBadRequest)
	}

	c, err := s.store.Issue(identifier, method)
	if err != nil {
		return nil, err
	}

	result := &DeliveryResult{Success: true}
	if !s.production {
		// Diagnostic path: surface the code to the caller and log it so a
		// developer without a mail sink can complete the flow.
		result.Code = c.Code
		result.PreviewURL = "log://verification/" + identifier
		slog.Debug("issued verification code", "identifier", identifier, "method", method, "code", c.Code, "expires_at", c.ExpiresAt)
	}

	if err := deliver(ctx, c); err != nil {
		slog.Warn("verification code delivery failed", "identifier", identifier, "method", method, "err", err)
		result.Success = false
		return result, fmt.Errorf("send %s code: %w", method, ErrDeliveryFailed)
	}
	return result, nil
}

// Verify validates a submitted code. Failures pass through untranslated so
// callers can render expired/mismatch/already-used guidance distinctly.
func (s *Service) Verify(identifier, submitted string) error {
	return s.store.Verify(identifier, submitted)
}

func (s *Service) deliverEmail(_ context.Context, c Code) error {
	if s.mailer == nil {
		return errors.New("email sender not configured")
	}
	body := fmt.Sprintf("Seu código de verificação do Painel ABZ é %s. Ele expira em %s.",
		c.Code, c.ExpiresAt.Format("15:04"))
	return s.mailer.SendEmail(c.Identifier, "Código de verificação - Painel ABZ", body)
}

func (s *Service) deliverSMS(ctx context.Context, c Code) error {
	if s.sms == nil {
		return errors.New("sms sender not configured")
	}
	return s.sms.SendSMS(ctx, c.Identifier, "Painel ABZ - código de verificação: "+c.Code)
}
