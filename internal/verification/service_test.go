package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abz-group/portal-api/internal/domain"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	args := m.Called(ctx, to, message)
	return args.Error(0)
}

func TestSend_EmailDelivery(t *testing.T) {
	store := NewStore(10 * time.Minute)
	mailer := new(mockMailer)
	mailer.On("SendEmail", "user@abzgroup.com.br", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, mailer, new(mockSMS), false)
	result, err := svc.Send(context.Background(), "user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// Non-production responses surface the code for developer flows.
	require.Len(t, result.Code, 6)
	assert.Equal(t, "log://verification/user@abzgroup.com.br", result.PreviewURL)
	mailer.AssertExpectations(t)

	// The delivered and registered codes agree.
	assert.NoError(t, svc.Verify("user@abzgroup.com.br", result.Code))
}

func TestSend_SMSDelivery(t *testing.T) {
	store := NewStore(10 * time.Minute)
	sms := new(mockSMS)
	sms.On("SendSMS", mock.Anything, "+5521990000000", mock.Anything).Return(nil)

	svc := NewService(store, new(mockMailer), sms, false)
	result, err := svc.Send(context.Background(), "+5521990000000", MethodSMS)
	require.NoError(t, err)
	assert.True(t, result.Success)
	sms.AssertExpectations(t)
}

func TestSend_ProductionNeverEchoesCode(t *testing.T) {
	store := NewStore(10 * time.Minute)
	mailer := new(mockMailer)
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, mailer, new(mockSMS), true)
	result, err := svc.Send(context.Background(), "user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)
	assert.Empty(t, result.Code)
	assert.Empty(t, result.PreviewURL)
}

func TestSend_UnknownMethod(t *testing.T) {
	svc := NewService(NewStore(10*time.Minute), new(mockMailer), new(mockSMS), false)
	_, err := svc.Send(context.Background(), "user@abzgroup.com.br", "carrier-pigeon")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSend_EmptyIdentifier(t *testing.T) {
	svc := NewService(NewStore(10*time.Minute), new(mockMailer), new(mockSMS), false)
	_, err := svc.Send(context.Background(), "", MethodEmail)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

// A failed delivery keeps the code registered: the user may have learned it
// through the diagnostic log and can still verify.
func TestSend_DeliveryFailureKeepsCodeRegistered(t *testing.T) {
	store := NewStore(10 * time.Minute)
	mailer := new(mockMailer)
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := NewService(store, mailer, new(mockSMS), false)
	result, err := svc.Send(context.Background(), "user@abzgroup.com.br", MethodEmail)
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.NotNil(t, result)
	assert.False(t, result.Success)

	assert.NoError(t, svc.Verify("user@abzgroup.com.br", result.Code))
}

// A deployment without an SMS provider still answers SMS sends with a
// delivery failure rather than crashing the request.
func TestSend_NilSMSSenderFailsDelivery(t *testing.T) {
	store := NewStore(10 * time.Minute)

	svc := NewService(store, new(mockMailer), nil, false)
	result, err := svc.Send(context.Background(), "+5521990000000", MethodSMS)
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.NotNil(t, result)
	assert.False(t, result.Success)

	// The code is still registered for the diagnostic flow.
	assert.NoError(t, svc.Verify("+5521990000000", result.Code))
}

func TestSend_NilMailerFailsDelivery(t *testing.T) {
	svc := NewService(NewStore(10*time.Minute), nil, new(mockSMS), false)
	_, err := svc.Send(context.Background(), "user@abzgroup.com.br", MethodEmail)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}
