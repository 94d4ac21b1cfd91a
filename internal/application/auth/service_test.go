package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/verification"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, email, phone, role string) (string, error) {
	args := m.Called(userID, email, phone, role)
	return args.String(0), args.Error(1)
}

type stubMailer struct{}

func (stubMailer) SendEmail(to, subject, body string) error { return nil }

type stubSMS struct{}

func (stubSMS) SendSMS(ctx context.Context, to, message string) error { return nil }

func enabledUser() *domain.User {
	return &domain.User{
		UserID: "u1",
		Email:  "u1@abzgroup.com.br",
		Role:   domain.RoleUser,
		Enable: 1,
	}
}

func newTestService(users *mockUserStore, sessions *mockSessionStore, signer *mockSigner) (Service, *verification.Service) {
	store := verification.NewStore(10 * time.Minute)
	codes := verification.NewService(store, stubMailer{}, stubSMS{}, false)
	svc := NewService(ServiceDeps{
		Codes:           codes,
		UserRepo:        users,
		SessionRepo:     sessions,
		JWTProvider:     signer,
		RefreshTokenDur: 30 * 24 * time.Hour,
	})
	return svc, codes
}

func TestSendVerification_UnknownIdentifier(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "nobody@abzgroup.com.br").Return(nil, domain.ErrNotFound)

	svc, _ := newTestService(users, new(mockSessionStore), new(mockSigner))
	_, err := svc.SendVerification(context.Background(), SendVerificationRequest{
		Identifier: "nobody@abzgroup.com.br",
		Method:     verification.MethodEmail,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendVerification_KnownEmployee(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "u1@abzgroup.com.br").Return(enabledUser(), nil)

	svc, _ := newTestService(users, new(mockSessionStore), new(mockSigner))
	result, err := svc.SendVerification(context.Background(), SendVerificationRequest{
		Identifier: "u1@abzgroup.com.br",
		Method:     verification.MethodEmail,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Code, 6)
}

func TestCheckVerification_FullFlow(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "u1@abzgroup.com.br").Return(enabledUser(), nil)
	sessions := new(mockSessionStore)
	sessions.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	signer := new(mockSigner)
	signer.On("Sign", "u1", "u1@abzgroup.com.br", "", domain.RoleUser).Return("signed-token", nil)

	svc, codes := newTestService(users, sessions, signer)
	sent, err := codes.Send(context.Background(), "u1@abzgroup.com.br", verification.MethodEmail)
	require.NoError(t, err)

	result, err := svc.CheckVerification(context.Background(), CheckVerificationRequest{
		Identifier: "u1@abzgroup.com.br",
		Code:       sent.Code,
	})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.Bearer)
	assert.NotEmpty(t, result.RefreshToken)
	require.NotNil(t, result.Session)
	assert.Equal(t, "u1", result.Session.UserID)
	assert.NotNil(t, result.Session.User)
	sessions.AssertExpectations(t)
	signer.AssertExpectations(t)
}

// The same code cannot mint two sessions.
func TestCheckVerification_SecondUseRejected(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "u1@abzgroup.com.br").Return(enabledUser(), nil)
	sessions := new(mockSessionStore)
	sessions.On("Put", mock.Anything, mock.Anything).Return(nil)
	signer := new(mockSigner)
	signer.On("Sign", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("signed-token", nil)

	svc, codes := newTestService(users, sessions, signer)
	sent, err := codes.Send(context.Background(), "u1@abzgroup.com.br", verification.MethodEmail)
	require.NoError(t, err)

	req := CheckVerificationRequest{Identifier: "u1@abzgroup.com.br", Code: sent.Code}
	_, err = svc.CheckVerification(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CheckVerification(context.Background(), req)
	assert.ErrorIs(t, err, verification.ErrAlreadyUsed)
}

func TestCheckVerification_WrongCode(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "u1@abzgroup.com.br").Return(enabledUser(), nil)

	svc, codes := newTestService(users, new(mockSessionStore), new(mockSigner))
	sent, err := codes.Send(context.Background(), "u1@abzgroup.com.br", verification.MethodEmail)
	require.NoError(t, err)

	wrong := "000000"
	if sent.Code == wrong {
		wrong = "000001"
	}
	_, err = svc.CheckVerification(context.Background(), CheckVerificationRequest{
		Identifier: "u1@abzgroup.com.br",
		Code:       wrong,
	})
	assert.ErrorIs(t, err, verification.ErrMismatch)
}

func TestCheckVerification_DisabledAccount(t *testing.T) {
	disabled := enabledUser()
	disabled.Enable = 0
	users := new(mockUserStore)
	users.On("GetByEmail", mock.Anything, "u1@abzgroup.com.br").Return(disabled, nil)

	svc, codes := newTestService(users, new(mockSessionStore), new(mockSigner))
	sent, err := codes.Send(context.Background(), "u1@abzgroup.com.br", verification.MethodEmail)
	require.NoError(t, err)

	_, err = svc.CheckVerification(context.Background(), CheckVerificationRequest{
		Identifier: "u1@abzgroup.com.br",
		Code:       sent.Code,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCheckVerification_NoCodeIssued(t *testing.T) {
	svc, _ := newTestService(new(mockUserStore), new(mockSessionStore), new(mockSigner))
	_, err := svc.CheckVerification(context.Background(), CheckVerificationRequest{
		Identifier: "u1@abzgroup.com.br",
		Code:       "123456",
	})
	assert.ErrorIs(t, err, verification.ErrNotFound)
}
