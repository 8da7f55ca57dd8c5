package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebook/internal/model"
)

func TestIdentityFromClaims(t *testing.T) {
	ident, ok := identityFromClaims(jwt.MapClaims{"sub": float64(42), "role": "user"})
	require.True(t, ok)
	assert.Equal(t, uint64(42), ident.UserID)
	assert.Equal(t, model.RoleUser, ident.Role)

	ident, ok = identityFromClaims(jwt.MapClaims{"sub": "7", "role": "admin"})
	require.True(t, ok)
	assert.Equal(t, uint64(7), ident.UserID)
	assert.Equal(t, model.RoleAdmin, ident.Role)

	_, ok = identityFromClaims(jwt.MapClaims{"sub": float64(0), "role": "user"})
	assert.False(t, ok)

	_, ok = identityFromClaims(jwt.MapClaims{"sub": float64(1), "role": "owner"})
	assert.False(t, ok)

	_, ok = identityFromClaims(jwt.MapClaims{"role": "user"})
	assert.False(t, ok)
}
