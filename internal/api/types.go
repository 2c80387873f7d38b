package api

// Principal is the authenticated operator, fetched from GET /me after every
// credential issuance. It is never persisted; it is always re-derived from
// the current session.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

// ChallengeNewPasswordRequired is the challenge marker the login endpoint
// returns when the backend demands a password change before issuing a
// usable session.
const ChallengeNewPasswordRequired = "NEW_PASSWORD_REQUIRED"

// LoginResponse is the raw login result: either a full credential set or a
// challenge marker plus the opaque challenge session.
type LoginResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	Challenge    string `json:"challenge,omitempty"`
	Session      string `json:"session,omitempty"`
}

// Challenged reports whether the backend demanded a first-login password
// change instead of issuing credentials.
func (r LoginResponse) Challenged() bool {
	return r.Challenge == ChallengeNewPasswordRequired
}

// TokenResponse is a full credential set, returned by first-login.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type firstLoginRequest struct {
	Email        string `json:"email"`
	TempPassword string `json:"tempPassword"`
	NewPassword  string `json:"newPassword"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type confirmForgotPasswordRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmationCode"`
	NewPassword      string `json:"newPassword"`
}

// Product is a catalog item managed from the back office.
type Product struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Specs       map[string]any `json:"specs,omitempty"`
	Categories  []int          `json:"categories,omitempty"`
	Status      string         `json:"status,omitempty"`
	Images      []string       `json:"images,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items       []Product `json:"items"`
	Count       int       `json:"count"`
	HasNextPage bool      `json:"hasNextPage"`
}

// ProductFilter narrows and pages the product listing. Zero values are
// omitted from the query.
type ProductFilter struct {
	Page     int
	PageSize int
	Category string
	Status   string
}

// Category groups products in the catalog.
type Category struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// User is a customer account as listed in the back office.
type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone,omitempty"`
	Role      string   `json:"role,omitempty"`
	Status    string   `json:"status,omitempty"`
	Favorites []string `json:"favorites,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// Collaborator is a back-office operator account created by an admin.
type Collaborator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// StoreInfo is the storefront contact profile.
type StoreInfo struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Overview aggregates the dashboard counters.
type Overview struct {
	Products   int `json:"products"`
	Users      int `json:"users"`
	Categories int `json:"categories"`
}
