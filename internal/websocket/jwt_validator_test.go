package websocket

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateToken_Success(t *testing.T) {
	validator := NewJWTValidator("secret")
	userID := uuid.New()

	got, err := validator.ValidateToken(signToken(t, "secret", userID.String(), time.Hour))
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	validator := NewJWTValidator("secret")

	_, err := validator.ValidateToken(signToken(t, "other", uuid.New().String(), time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	validator := NewJWTValidator("secret")

	_, err := validator.ValidateToken(signToken(t, "secret", uuid.New().String(), -time.Minute))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_NonUUIDSubject(t *testing.T) {
	validator := NewJWTValidator("secret")

	_, err := validator.ValidateToken(signToken(t, "secret", "not-a-uuid", time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	validator := NewJWTValidator("secret")

	_, err := validator.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
