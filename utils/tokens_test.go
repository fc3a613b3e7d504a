package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("secret")
	require.NoError(t, err)

	token, err := m.NewJWT("u1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestManagerRejectsExpiredAndForeignTokens(t *testing.T) {
	m, _ := NewManager("secret")
	other, _ := NewManager("other")

	expired, err := m.NewJWT("u1", "user", -time.Minute)
	require.NoError(t, err)
	_, err = m.Parse(expired)
	assert.Error(t, err)

	foreign, err := other.NewJWT("u1", "user", time.Hour)
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.Error(t, err)
}

func TestNewManagerRequiresKey(t *testing.T) {
	_, err := NewManager("")
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	m, _ := NewManager("secret")
	a, err := m.NewRefreshToken()
	require.NoError(t, err)
	b, _ := m.NewRefreshToken()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
