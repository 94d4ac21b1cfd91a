package verification

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore returns a store with a controllable clock.
func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	s := NewStore(ttl)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestIssue_CodeIsSixDigits(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	for i := 0; i < 100; i++ {
		c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
		require.NoError(t, err)
		require.Len(t, c.Code, 6)
		n, err := strconv.Atoi(c.Code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssue_SetsExpiryFromTTL(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)
	assert.Equal(t, *now, c.IssuedAt)
	assert.Equal(t, now.Add(10*time.Minute), c.ExpiresAt)
	assert.False(t, c.Used)
}

func TestIssue_OverwritesPriorCode(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	first, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)
	second, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	// The first code is superseded even if its value differs.
	if first.Code != second.Code {
		assert.ErrorIs(t, s.Verify("user@abzgroup.com.br", first.Code), ErrMismatch)
	}
	assert.NoError(t, s.Verify("user@abzgroup.com.br", second.Code))
}

func TestVerify_UnknownIdentifier(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)
	assert.ErrorIs(t, s.Verify("nobody@abzgroup.com.br", "123456"), ErrNotFound)
}

func TestVerify_Mismatch(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	wrong := "000000"
	if c.Code == wrong {
		wrong = "000001"
	}
	assert.ErrorIs(t, s.Verify("user@abzgroup.com.br", wrong), ErrMismatch)

	// A mismatch does not consume the code.
	assert.NoError(t, s.Verify("user@abzgroup.com.br", c.Code))
}

func TestVerify_SingleUse(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	require.NoError(t, s.Verify("user@abzgroup.com.br", c.Code))
	assert.ErrorIs(t, s.Verify("user@abzgroup.com.br", c.Code), ErrAlreadyUsed)
}

func TestVerify_AcceptedAtExactExpiryInstant(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	*now = c.ExpiresAt
	assert.NoError(t, s.Verify("user@abzgroup.com.br", c.Code))
}

func TestVerify_ExpiredBeatsMismatchAndUse(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	*now = now.Add(10*time.Minute + time.Second)

	// Expiry is reported even for the correct value, and even for a wrong one.
	assert.ErrorIs(t, s.Verify("user@abzgroup.com.br", c.Code), ErrExpired)
	assert.ErrorIs(t, s.Verify("user@abzgroup.com.br", "000000"), ErrExpired)
}

func TestPeekLatest_IncludesConsumed(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	c, err := s.Issue("user@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)
	require.NoError(t, s.Verify("user@abzgroup.com.br", c.Code))

	got, ok := s.PeekLatest("user@abzgroup.com.br")
	require.True(t, ok)
	assert.True(t, got.Used)
	assert.Equal(t, c.Code, got.Code)

	_, ok = s.PeekLatest("nobody@abzgroup.com.br")
	assert.False(t, ok)
}

func TestListActive_ExcludesConsumed(t *testing.T) {
	s, _ := newTestStore(10 * time.Minute)

	used, err := s.Issue("used@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)
	require.NoError(t, s.Verify("used@abzgroup.com.br", used.Code))

	_, err = s.Issue("live@abzgroup.com.br", MethodSMS)
	require.NoError(t, err)

	active := s.ListActive()
	require.Len(t, active, 1)
	assert.Equal(t, "live@abzgroup.com.br", active[0].Identifier)
}

func TestSweep_DropsLongExpiredEntries(t *testing.T) {
	s, now := newTestStore(10 * time.Minute)

	_, err := s.Issue("old@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	_, err = s.Issue("fresh@abzgroup.com.br", MethodEmail)
	require.NoError(t, err)

	s.sweep(time.Hour)

	_, ok := s.PeekLatest("old@abzgroup.com.br")
	assert.False(t, ok)
	_, ok = s.PeekLatest("fresh@abzgroup.com.br")
	assert.True(t, ok)
}

func TestCode_Active(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := Code{ExpiresAt: now.Add(time.Minute)}

	assert.True(t, c.Active(now))
	assert.True(t, c.Active(c.ExpiresAt))
	assert.False(t, c.Active(c.ExpiresAt.Add(time.Nanosecond)))

	c.Used = true
	assert.False(t, c.Active(now))
}
