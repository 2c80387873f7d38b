package session

// Slot names for the persisted credential fields. Absence of a slot means the
// token was never issued or has been cleared.
const (
	slotAccessToken   = "accessToken"
	slotRefreshToken  = "refreshToken"
	slotIdentityToken = "idToken"
)

// Credentials is the set of tokens issued together by the authentication
// backend. The access and refresh tokens always come from the same issuance;
// the identity token is optional. Values are opaque to this layer.
type Credentials struct {
	AccessToken   string
	RefreshToken  string
	IdentityToken string
}

// Empty reports whether no field is present.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.IdentityToken == ""
}

// slots returns only the fields that are present, keyed by slot name.
func (c Credentials) slots() map[string]string {
	out := make(map[string]string, 3)
	if c.AccessToken != "" {
		out[slotAccessToken] = c.AccessToken
	}
	if c.RefreshToken != "" {
		out[slotRefreshToken] = c.RefreshToken
	}
	if c.IdentityToken != "" {
		out[slotIdentityToken] = c.IdentityToken
	}
	return out
}
