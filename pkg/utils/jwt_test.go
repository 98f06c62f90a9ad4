package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 2*time.Hour, "svs-ops-api")
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "alice", []string{"so:view", "dash:view"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"so:view", "dash:view"}, claims.Permissions)
	assert.Equal(t, id.String(), claims.Subject)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("a", time.Hour, "x").GenerateAccessToken(uuid.New(), "bob", nil)
	require.NoError(t, err)

	_, err = NewJWTManager("b", time.Hour, "x").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, "x")
	issued := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(uuid.New(), "bob", nil)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &JWTClaims{UserID: uuid.New(), Username: "eve"}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour, "x").ValidateAccessToken(s)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("secret", "not-a-hash"))
}
