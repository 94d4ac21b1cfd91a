package jwtinfra

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abz-group/portal-api/internal/config"
	"github.com/abz-group/portal-api/internal/domain"
)

func newProvider(t *testing.T, secret string) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: secret, JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	assert.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newProvider(t, "secret-a")

	signed, err := p.Sign("u1", "u1@abzgroup.com.br", "+5521990000000", domain.RoleManager)
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@abzgroup.com.br", claims.Email)
	assert.Equal(t, "+5521990000000", claims.PhoneNumber)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestSign_RequiresUserID(t *testing.T) {
	p := newProvider(t, "secret-a")
	_, err := p.Sign("", "u1@abzgroup.com.br", "", domain.RoleUser)
	assert.Error(t, err)
}

func TestSign_EmptyRoleDefaultsToUser(t *testing.T) {
	p := newProvider(t, "secret-a")

	signed, err := p.Sign("u1", "", "", "")
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestVerify_Expired(t *testing.T) {
	p := newProvider(t, "secret-a")

	signed, err := p.SignWithTTL("u1", "", "", domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	a := newProvider(t, "secret-a")
	b := newProvider(t, "secret-b")

	signed, err := a.Sign("u1", "", "", domain.RoleUser)
	require.NoError(t, err)

	_, err = b.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	p := newProvider(t, "secret-a")
	_, err := p.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrMalformed)
}

// Tokens signed with a non-HMAC algorithm are rejected even if they carry the
// right claim shape.
func TestVerify_RejectsUnexpectedAlgorithm(t *testing.T) {
	p := newProvider(t, "secret-a")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}
