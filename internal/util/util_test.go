package util

import (
	"strings"
	"testing"
	"time"

	"secplus_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDifficulty(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"mixed":   "",
		" All ":   "",
		"any":     "",
		"Hard":    "hard",
		"medium ": "medium",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDifficulty(in), in)
	}
}

func TestQueryInt(t *testing.T) {
	assert.Equal(t, 5, QueryInt("5", 10))
	assert.Equal(t, 10, QueryInt("", 10))
	assert.Equal(t, 10, QueryInt("x", 10))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", model.Admin, "a@example.com", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.Admin, claims.Role)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT("user-1", model.Student, "", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestValidateMimeType(t *testing.T) {
	mime, err := ValidateMimeType(strings.NewReader(`[{"questionText": "x"}]`), AllowedBankMimeTypes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mime, "text/plain"))

	_, err = ValidateMimeType(strings.NewReader("\x89PNG\r\n\x1a\n"), AllowedBankMimeTypes)
	assert.Error(t, err)
}
