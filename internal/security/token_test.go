package security

import (
	"testing"
	"time"

	"toolcrib-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-0123456789abcdefghij"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	user := &domain.User{
		ID:          7,
		Email:       "sup@acme.example",
		Role:        domain.RoleSupervisor,
		CompanyName: "Acme Machining",
	}

	token, err := tm.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int32(7), claims.UserID)
	assert.Equal(t, domain.RoleSupervisor, claims.Role)
	assert.Equal(t, "Acme Machining", claims.CompanyName)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	token, err := tm.GenerateAccessToken(&domain.User{ID: 1, Role: domain.RoleOperator})
	require.NoError(t, err)

	other := NewTokenManager("another-secret-0123456789abcdefghij", 60)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := &tokenManager{secret: []byte(testSecret), expiry: -time.Minute}
	token, err := tm.GenerateAccessToken(&domain.User{ID: 1, Role: domain.RoleOperator})
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	_, err := tm.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
