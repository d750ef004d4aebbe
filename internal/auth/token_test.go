package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestManager_IssueAndVerifyAccess(t *testing.T) {
	m := NewManager(testSecret, 15*time.Minute, 24*time.Hour)

	token, err := m.IssueAccess(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestManager_IssueAndVerifyRefresh(t *testing.T) {
	m := NewManager(testSecret, 15*time.Minute, 24*time.Hour)

	token, err := m.IssueRefresh(42)
	require.NoError(t, err)

	userID, err := m.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestManager_TokenTypeIsEnforced(t *testing.T) {
	m := NewManager(testSecret, 15*time.Minute, 24*time.Hour)

	access, err := m.IssueAccess(42)
	require.NoError(t, err)
	refresh, err := m.IssueRefresh(42)
	require.NoError(t, err)

	// A refresh token must never pass as an access token, and vice versa.
	_, err = m.VerifyAccess(refresh)
	assert.Error(t, err)

	_, err = m.VerifyRefresh(access)
	assert.Error(t, err)
}

func TestManager_VerifyAccess_Expired(t *testing.T) {
	m := NewManager(testSecret, -1*time.Minute, 24*time.Hour)

	token, err := m.IssueAccess(42)
	require.NoError(t, err)

	_, err = m.VerifyAccess(token)
	assert.Error(t, err)
}

func TestManager_VerifyAccess_WrongSecret(t *testing.T) {
	issuer := NewManager(testSecret, 15*time.Minute, 24*time.Hour)
	verifier := NewManager("a-different-secret", 15*time.Minute, 24*time.Hour)

	token, err := issuer.IssueAccess(42)
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(token)
	assert.Error(t, err)
}

func TestManager_VerifyAccess_Garbage(t *testing.T) {
	m := NewManager(testSecret, 15*time.Minute, 24*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Empty", token: ""},
		{name: "Not a JWT", token: "not-a-token"},
		{name: "Truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiI0MiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.VerifyAccess(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestManager_RefreshTTL(t *testing.T) {
	m := NewManager(testSecret, 15*time.Minute, 7*24*time.Hour)
	assert.Equal(t, 7*24*time.Hour, m.RefreshTTL())
}
