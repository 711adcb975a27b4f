package internal

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestInspectToken(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := signedToken(t, jwt.MapClaims{
		"sub":   "348220961155448833",
		"email": "bk@gauchoracing.com",
		"iss":   "https://sentinel.gauchoracing.com",
		"exp":   exp.Unix(),
	})

	info, err := InspectToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "348220961155448833", info.Subject)
	assert.Equal(t, "bk@gauchoracing.com", info.Email)
	assert.Equal(t, "https://sentinel.gauchoracing.com", info.Issuer)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.True(t, info.IssuedAt.IsZero())
}

func TestInspectTokenIgnoresExpiry(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{
		"sub": "user",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	info, err := InspectToken(raw)
	require.NoError(t, err)
	assert.True(t, info.ExpiresAt.Before(time.Now()))
}

func TestInspectTokenMalformed(t *testing.T) {
	_, err := InspectToken("not-a-jwt")
	assert.ErrorContains(t, err, "failed to decode identity token")
}
