package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	m := NewManager("test-secret", 24*time.Hour, "testchat")

	token, err := m.Generate(42)
	req.NoError(err)
	req.NotEmpty(token)

	userID, err := m.Verify(token)
	req.NoError(err)
	req.Equal(uint(42), userID)
}

func TestManager_ExpiredToken(t *testing.T) {
	req := require.New(t)
	m := NewManager("test-secret", -time.Minute, "testchat")

	token, err := m.Generate(42)
	req.NoError(err)

	_, err = m.Verify(token)
	req.ErrorIs(err, ErrExpiredToken)
}

func TestManager_MalformedToken(t *testing.T) {
	req := require.New(t)
	m := NewManager("test-secret", 24*time.Hour, "testchat")

	_, err := m.Verify("not-a-token")
	req.ErrorIs(err, ErrInvalidToken)

	_, err = m.Verify("")
	req.ErrorIs(err, ErrInvalidToken)
}

func TestManager_WrongSecret(t *testing.T) {
	req := require.New(t)
	minter := NewManager("secret-a", 24*time.Hour, "testchat")
	verifier := NewManager("secret-b", 24*time.Hour, "testchat")

	token, err := minter.Generate(7)
	req.NoError(err)

	_, err = verifier.Verify(token)
	req.ErrorIs(err, ErrInvalidToken)
}
