package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewSSOTicket(t *testing.T) {
	ticket := NewSSOTicket()
	require.True(t, strings.HasPrefix(ticket, "Sso-"))

	// the part after the prefix must be a well-formed UUID
	_, err := uuid.Parse(strings.TrimPrefix(ticket, "Sso-"))
	require.NoError(t, err)
}

func TestNewSSOTicket_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ticket := NewSSOTicket()
		require.False(t, seen[ticket])
		seen[ticket] = true
	}
}
