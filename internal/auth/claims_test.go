package auth

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/session"
)

func signedIdentityToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestIdentityClaimsDecodesStoredToken(t *testing.T) {
	h := newHarness(t, chi.NewRouter())
	require.NoError(t, h.store.Save(context.Background(), session.Credentials{
		IdentityToken: signedIdentityToken(t, jwt.MapClaims{
			"sub":   "u1",
			"email": "a@x.com",
			"name":  "Ada",
		}),
	}))

	claims, err := h.authn.IdentityClaims(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

func TestIdentityClaimsWithoutToken(t *testing.T) {
	h := newHarness(t, chi.NewRouter())

	_, err := h.authn.IdentityClaims(context.Background())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestIdentityClaimsRejectsMalformedToken(t *testing.T) {
	h := newHarness(t, chi.NewRouter())
	require.NoError(t, h.store.Save(context.Background(), session.Credentials{
		IdentityToken: "not-a-jwt",
	}))

	_, err := h.authn.IdentityClaims(context.Background())
	assert.Error(t, err)
}
