package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/abz-group/portal-api/internal/config"
	"github.com/abz-group/portal-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Typed verification failures. The auth middleware collapses all of them into
// a uniform 401 for the caller; the distinction exists for server-side logs.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Claims is the bearer token payload. This shape is a wire contract: other
// collaborators decode {user_id, email, phone_number, role, iat, exp}.
type Claims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 bearer tokens. Tokens are self-contained:
// Verify performs no store round-trip and no revocation check, so a token
// stays valid until its natural expiry.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt signing secret is not configured")
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry}, nil
}

// Sign mints a token for the given identity with the provider's default TTL.
func (p *Provider) Sign(userID, email, phone, role string) (string, error) {
	return p.SignWithTTL(userID, email, phone, role, p.expiry)
}

// SignWithTTL mints a token carrying the identity claims and an explicit TTL.
// UserID is mandatory; an empty role defaults to USER.
func (p *Provider) SignWithTTL(userID, email, phone, role string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required to mint a token")
	}
	if role == "" {
		role = domain.RoleUser
	}
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		Email:       email,
		PhoneNumber: phone,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and validates a token, returning the embedded claims verbatim.
// Failures are one of ErrMalformed, ErrInvalidSignature or ErrExpired. A token
// is valid through its exact expiry instant and rejected only after it.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
