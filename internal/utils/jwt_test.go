package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken(t *testing.T) {
	t.Run("Should round-trip the identity", func(t *testing.T) {
		tok, err := NewAccessToken("secret", "alice", time.Hour)
		require.NoError(t, err)
		id, err := ParseIdentity("secret", tok.Token)
		require.NoError(t, err)
		assert.EqualValues(t, "alice", id)
	})
	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		tok, _ := NewAccessToken("secret", "alice", time.Hour)
		_, err := ParseIdentity("other", tok.Token)
		assert.Error(t, err)
	})
	t.Run("Should reject an expired token", func(t *testing.T) {
		tok, _ := NewAccessToken("secret", "alice", -time.Minute)
		_, err := ParseIdentity("secret", tok.Token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
	t.Run("Should reject a token without expiry", func(t *testing.T) {
		raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString([]byte("secret"))
		_, err := ParseIdentity("secret", raw)
		assert.Error(t, err)
	})
	t.Run("Should refuse to issue a token without identity", func(t *testing.T) {
		_, err := NewAccessToken("secret", "", time.Hour)
		assert.Error(t, err)
	})
}
