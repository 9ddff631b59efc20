package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret, "saldo")

	token, err := v.Issue("5511999990000", "Maria", []string{RoleMember}, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "5511999990000", claims.OwnerKey)
	assert.Equal(t, "Maria", claims.Name)
	assert.False(t, claims.IsAdmin())
}

func TestVerifier_AdminRole(t *testing.T) {
	v := NewVerifier(testSecret, "saldo")
	token, err := v.Issue("5511999990000", "Maria", []string{RoleMember, RoleAdmin}, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret, "saldo")
	token, err := v.Issue("5511999990000", "Maria", nil, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	other := NewVerifier("another-secret-value", "saldo")
	token, err := other.Issue("5511999990000", "Maria", nil, time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret, "saldo")
	_, err = v.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_RejectsWrongIssuer(t *testing.T) {
	other := NewVerifier(testSecret, "someone-else")
	token, err := other.Issue("5511999990000", "Maria", nil, time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret, "saldo")
	_, err = v.Verify(token)
	assert.Error(t, err)
}

func TestVerifier_RejectsMissingOwnerKey(t *testing.T) {
	v := NewVerifier(testSecret, "saldo")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "saldo",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrMissingOwnerKey)
}
