package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("super-secret", 5*time.Minute)

	token, expiresAt, err := tm.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 2*time.Second)

	username, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.IssueWithTTL("alice", -1*time.Second)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_ZeroTTL(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.IssueWithTTL("alice", 0)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("right-secret", time.Hour)
	verifier := NewTokenManager("wrong-secret", time.Hour)

	token, _, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_TamperedToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.Issue("alice")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "aaaa"
	_, err = tm.Parse(tampered)
	assert.Error(t, err)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	for _, tokenStr := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := tm.Parse(tokenStr)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tokenStr)
	}
}

func TestTokenManager_MissingSubject(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, _, err := tm.Issue("")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	_, expiresAt, err := tm.Issue("alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)
}
