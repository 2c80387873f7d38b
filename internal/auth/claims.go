package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are display claims decoded from the stored identity token.
// The token is parsed without signature verification: it is never used for
// authorization in this client, only for showing who is signed in.
type IdentityClaims struct {
	Subject string
	Email   string
	Name    string
}

// IdentityClaims decodes the current identity token, if one was issued.
func (a *Authenticator) IdentityClaims(ctx context.Context) (IdentityClaims, error) {
	raw, err := a.store.IdentityToken(ctx)
	if err != nil {
		return IdentityClaims{}, fmt.Errorf("read identity token: %w", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return IdentityClaims{}, fmt.Errorf("parse identity token: %w", err)
	}

	str := func(key string) string {
		value, _ := claims[key].(string)
		return value
	}
	return IdentityClaims{
		Subject: str("sub"),
		Email:   str("email"),
		Name:    str("name"),
	}, nil
}
