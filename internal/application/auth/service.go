package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/pkg/id"
	pkgtoken "github.com/abz-group/portal-api/internal/pkg/token"
	"github.com/abz-group/portal-api/internal/verification"
)

type SendVerificationRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	UserID     string `json:"user_id"`
	Method     string `json:"method" validate:"required,oneof=email sms"`
}

type CheckVerificationRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
}

type CheckResult struct {
	Bearer       string
	RefreshToken string
	Session      *domain.Session
}

// Service drives the passwordless verification flow: a code is issued and
// delivered for an identifier, and a successful check mints a bearer token
// for the matching employee account.
type Service interface {
	SendVerification(ctx context.Context, req SendVerificationRequest) (*verification.DeliveryResult, error)
	CheckVerification(ctx context.Context, req CheckVerificationRequest) (*CheckResult, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
}

type jwtSigner interface {
	Sign(userID, email, phone, role string) (string, error)
}

type ServiceDeps struct {
	Codes           *verification.Service
	UserRepo        userStore
	SessionRepo     sessionStore
	JWTProvider     jwtSigner
	RefreshTokenDur time.Duration
}

type service struct {
	codes           *verification.Service
	userRepo        userStore
	sessionRepo     sessionStore
	jwtProvider     jwtSigner
	refreshTokenDur time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		codes:           deps.Codes,
		userRepo:        deps.UserRepo,
		sessionRepo:     deps.SessionRepo,
		jwtProvider:     deps.JWTProvider,
		refreshTokenDur: deps.RefreshTokenDur,
	}
}

func (s *service) SendVerification(ctx context.Context, req SendVerificationRequest) (*verification.DeliveryResult, error) {
	// The identifier must belong to a known employee; codes are not issued
	// for arbitrary addresses.
	if _, err := s.lookupUser(ctx, req.Identifier, req.Method); err != nil {
		return nil, fmt.Errorf("no account for identifier: %w", domain.ErrNotFound)
	}
	return s.codes.Send(ctx, req.Identifier, req.Method)
}

func (s *service) CheckVerification(ctx context.Context, req CheckVerificationRequest) (*CheckResult, error) {
	// Code failures propagate untranslated: the handler maps Expired,
	// Mismatch and AlreadyUsed to distinct user-facing reasons.
	if err := s.codes.Verify(req.Identifier, req.Code); err != nil {
		return nil, err
	}

	u, err := s.lookupUser(ctx, req.Identifier, "")
	if err != nil {
		return nil, fmt.Errorf("no account for identifier: %w", domain.ErrNotFound)
	}
	if u.Enable != 1 {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}

	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}

	phone := ""
	if u.Phone != nil {
		phone = *u.Phone
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Email, phone, u.Role)
	if err != nil {
		return nil, err
	}

	slog.Info("verification login", "user_id", u.UserID, "identifier", req.Identifier)
	sess.User = u
	return &CheckResult{Bearer: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

// lookupUser resolves an identifier to an account. When method is known the
// right index is used directly; otherwise email is tried first, then phone.
func (s *service) lookupUser(ctx context.Context, identifier, method string) (*domain.User, error) {
	switch method {
	case verification.MethodEmail:
		return s.userRepo.GetByEmail(ctx, identifier)
	case verification.MethodSMS:
		return s.userRepo.GetByPhone(ctx, identifier)
	}
	if u, err := s.userRepo.GetByEmail(ctx, identifier); err == nil {
		return u, nil
	}
	return s.userRepo.GetByPhone(ctx, identifier)
}
