package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		err    error
	}{
		{"ok", "Bearer a.b.c", "a.b.c", nil},
		{"padded", "  Bearer a.b.c  ", "a.b.c", nil},
		{"missing", "", "", errMissingAuthorization},
		{"wrong scheme", "Basic a.b.c", "", errBadAuthorization},
		{"not a jwt", "Bearer abc", "", errBadAuthorization},
		{"too many periods", "Bearer a.b.c.d", "", errBadAuthorization},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify(t *testing.T) {
	auth := NewAuth(testSecret)

	t.Run("write scope", func(t *testing.T) {
		tok, err := IssueToken(testSecret, "ana", []string{"tasks:read", ScopeWrite}, time.Hour)
		require.NoError(t, err)
		p, err := auth.Verify("Bearer " + tok)
		require.NoError(t, err)
		assert.Equal(t, "ana", p.Subject)
		assert.True(t, p.CanWrite())
	})

	t.Run("read only", func(t *testing.T) {
		tok, err := IssueToken(testSecret, "bo", []string{"tasks:read"}, 0)
		require.NoError(t, err)
		p, err := auth.Verify("Bearer " + tok)
		require.NoError(t, err)
		assert.False(t, p.CanWrite())
	})

	t.Run("scopes array", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":    "cy",
			"scopes": []string{ScopeWrite},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		p, err := auth.Verify("Bearer " + tok)
		require.NoError(t, err)
		assert.True(t, p.CanWrite())
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := IssueToken("other", "ana", nil, time.Hour)
		require.NoError(t, err)
		_, err = auth.Verify("Bearer " + tok)
		assert.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "ana",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = auth.Verify("Bearer " + tok)
		assert.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		tok, err := IssueToken(testSecret, "", nil, time.Hour)
		require.NoError(t, err)
		_, err = auth.Verify("Bearer " + tok)
		assert.ErrorIs(t, err, errInvalidToken)
	})
}

func TestNewAuth_EmptySecretDisables(t *testing.T) {
	assert.Nil(t, NewAuth(""))
	_, err := IssueToken("", "ana", nil, time.Hour)
	assert.Error(t, err)
}
