package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestGenerateAndValidate(t *testing.T) {
	svc, err := NewTokenService("secret", time.Hour)
	require.NoError(t, err)

	token, err := svc.Generate("datastore-bridge")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "datastore-bridge", claims.Subject)
	assert.Equal(t, TriggerRole, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestValidate_WrongSecret(t *testing.T) {
	signer, _ := NewTokenService("secret", time.Hour)
	verifier, _ := NewTokenService("other", time.Hour)

	token, err := signer.Generate("x")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour)
	claims := TriggerClaims{
		Role: TriggerRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_WrongRole(t *testing.T) {
	svc, _ := NewTokenService("secret", 0)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TriggerClaims{Role: "admin"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	svc, _ := NewTokenService("secret", 0)
	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
