package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/shared/errors"
)

var testSecret = strings.Repeat("k", 32)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Generate("designer-7", "galaxies:write")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "designer-7", claims.Subject)
	assert.Equal(t, "galaxies:write", claims.Scope)
}

func TestValidateRejects(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenService(strings.Repeat("x", 32), time.Hour)
	require.NoError(t, err)

	foreign, err := other.Generate("someone", "")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "late",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":   "not-a-token",
		"wrong key": foreign,
		"expired":   expiredToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeUnauthorized, errors.GetType(err))
		})
	}
}

func TestNewTokenServiceChecksSecret(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(testSecret, 0)
	assert.Error(t, err)
}

func TestGenerateRequiresSubject(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Generate("", "")
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}
