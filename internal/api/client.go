// Package api is the typed surface of the back-office backend. Every call
// flows through the request pipeline; nothing in this package knows about
// tokens or retries.
package api

import (
	"context"
	"net/http"

	"backoffice/internal/pipeline"
)

// Client groups the auth endpoints and the CRUD collaborators behind one
// pipeline.
type Client struct {
	p *pipeline.Pipeline

	Products   *ProductsService
	Categories *CategoriesService
	Users      *UsersService
	Store      *StoreService
}

// New builds a Client on top of p.
func New(p *pipeline.Pipeline) *Client {
	c := &Client{p: p}
	c.Products = &ProductsService{p: p}
	c.Categories = &CategoriesService{p: p}
	c.Users = &UsersService{p: p}
	c.Store = &StoreService{p: p}
	return c
}

// Login exchanges credentials for a token set or a first-login challenge.
// Login itself flows through the pipeline for consistency, but is exempt
// from the renewal branch: there is no prior session to refresh.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.p.Do(ctx, http.MethodPost, "/auth/login",
		loginRequest{Email: email, Password: password}, &resp, pipeline.WithoutAuth())
	return resp, err
}

// FirstLogin completes the forced password rotation demanded by a
// NEW_PASSWORD_REQUIRED challenge and returns a full credential set.
func (c *Client) FirstLogin(ctx context.Context, email, tempPassword, newPassword string) (TokenResponse, error) {
	var resp TokenResponse
	err := c.p.Do(ctx, http.MethodPost, "/auth/first-login",
		firstLoginRequest{Email: email, TempPassword: tempPassword, NewPassword: newPassword},
		&resp, pipeline.WithoutAuth())
	return resp, err
}

// Register creates a new account. It never issues credentials.
func (c *Client) Register(ctx context.Context, email, password, name string) error {
	return c.p.Do(ctx, http.MethodPost, "/auth/register",
		registerRequest{Email: email, Password: password, Name: name}, nil, pipeline.WithoutAuth())
}

// ForgotPassword dispatches a reset code to the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.p.Do(ctx, http.MethodPost, "/auth/forgot-password",
		forgotPasswordRequest{Email: email}, nil, pipeline.WithoutAuth())
}

// ConfirmForgotPassword redeems a reset code for a new password.
func (c *Client) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	return c.p.Do(ctx, http.MethodPost, "/auth/forgot-password/confirm",
		confirmForgotPasswordRequest{Email: email, ConfirmationCode: code, NewPassword: newPassword},
		nil, pipeline.WithoutAuth())
}

// Me fetches the authenticated principal.
func (c *Client) Me(ctx context.Context) (Principal, error) {
	var principal Principal
	err := c.p.Do(ctx, http.MethodGet, "/me", nil, &principal)
	return principal, err
}
