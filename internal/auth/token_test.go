package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService(now time.Time) *Service {
	s := NewService("test-secret", 30*time.Minute, 365*24*time.Hour)
	s.Now = func() time.Time { return now }
	return s
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))

	tok, err := svc.Issue(42, false)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)

	sub, err := svc.Validate(tok.Value)
	require.NoError(t, err)
	require.Equal(t, uint64(42), sub)
}

func TestValidate_ExpiredAfterShortWindow(t *testing.T) {
	start := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	svc := newTestService(start)

	tok, err := svc.Issue(7, false)
	require.NoError(t, err)

	// advance the clock past the short window
	svc.Now = func() time.Time { return start.Add(31 * time.Minute) }
	_, err = svc.Validate(tok.Value)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssue_RememberMeExtendsExpiry(t *testing.T) {
	start := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	svc := newTestService(start)

	short, err := svc.Issue(7, false)
	require.NoError(t, err)
	long, err := svc.Issue(7, true)
	require.NoError(t, err)

	require.True(t, long.Exp.After(short.Exp))
	require.Equal(t, start.Add(svc.AccessTTL), short.Exp)
	require.Equal(t, start.Add(svc.RememberTTL), long.Exp)

	// a remember-me token survives well past the short window
	svc.Now = func() time.Time { return start.Add(48 * time.Hour) }
	sub, err := svc.Validate(long.Value)
	require.NoError(t, err)
	require.Equal(t, uint64(7), sub)
}

func TestIssue_NonPositiveWindowRejected(t *testing.T) {
	svc := newTestService(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))

	svc.AccessTTL = 0
	_, err := svc.Issue(42, false)
	require.Error(t, err)

	svc.RememberTTL = -time.Hour
	_, err = svc.Issue(42, true)
	require.Error(t, err)
}

func TestValidate_TamperedSignature(t *testing.T) {
	svc := newTestService(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))

	tok, err := svc.Issue(42, false)
	require.NoError(t, err)

	// flip one byte in the signature segment
	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = svc.Validate(strings.Join(parts, "."))
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_WrongSecret(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	svc := newTestService(now)
	tok, err := svc.Issue(42, false)
	require.NoError(t, err)

	other := newTestService(now)
	other.Secret = []byte("different-secret")
	_, err = other.Validate(tok.Value)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Malformed(t *testing.T) {
	svc := newTestService(time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC))
	for _, raw := range []string{"", "not.a.jwt", "onlyonepart"} {
		_, err := svc.Validate(raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}
