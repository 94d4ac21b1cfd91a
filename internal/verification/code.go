package verification

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"
)

// Delivery methods for one-time codes.
const (
	MethodEmail = "email"
	MethodSMS   = "sms"
)

// Typed verification failures. Unlike token failures, these stay distinct all
// the way to the HTTP response so the UI can tell "wrong code" from "expired
// code" from "code already used".
var (
	ErrNotFound    = errors.New("no code registered for identifier")
	ErrExpired     = errors.New("code expired")
	ErrMismatch    = errors.New("code does not match")
	ErrAlreadyUsed = errors.New("code already used")
)

// Code is a short-lived one-time verification code bound to an email address
// or phone number.
type Code struct {
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	Method     string    `json:"method"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Used       bool      `json:"used"`
}

// Active reports whether the code is still verifiable at the given instant:
// not consumed and not past its expiry. A code is live through the exact
// expiry instant, mirroring bearer-token semantics.
func (c Code) Active(now time.Time) bool {
	return !c.Used && !now.After(c.ExpiresAt)
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
// The range starts at 100000, so codes are leading-zero-free by construction.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
