// Package auth owns the authentication lifecycle: login, forced password
// rotation, registration, password reset, and logout. It mutates the session
// only through the session store and talks to the backend only through the
// typed API client, so the state machine stays testable without any UI.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"backoffice/internal/api"
	"backoffice/internal/notify"
	"backoffice/internal/pipeline"
	"backoffice/internal/session"
)

var (
	// ErrAlreadyAuthenticated is returned when login is attempted from a
	// state that is not signed out.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	// ErrNoPendingReset is returned when a reset confirmation arrives without
	// a dispatched code for that address.
	ErrNoPendingReset = errors.New("no pending password reset")
)

// Challenge is the transient first-login challenge returned by the backend.
// It is not part of the session; it is handed to CompleteFirstLogin and
// discarded after use or abandonment.
type Challenge struct {
	Email        string
	TempPassword string
	Session      string
}

// LoginResult is the tagged outcome of Login: exactly one field is set.
type LoginResult struct {
	// Principal is set when a full session was established.
	Principal *api.Principal
	// Challenge is set when the backend demands a password change first.
	Challenge *Challenge
}

// resetFlow tracks the client-side forgot-password state.
type resetFlow struct {
	email       string
	pendingCode bool
}

// Authenticator is the auth state machine. All state transitions happen under
// one mutex; the session store remains the single writer for credentials.
type Authenticator struct {
	store    session.Store
	api      *api.Client
	notifier notify.Notifier
	log      *slog.Logger

	mu        sync.Mutex
	state     State
	principal *api.Principal
	challenge *Challenge
	reset     *resetFlow
}

// New wires an Authenticator to its collaborators and registers the session
// expiry hook on the pipeline.
func New(store session.Store, client *api.Client, pipe *pipeline.Pipeline, notifier notify.Notifier, log *slog.Logger) *Authenticator {
	a := &Authenticator{
		store:    store,
		api:      client,
		notifier: notifier,
		log:      log,
		state:    StateAnonymous,
	}
	pipe.OnSessionExpired(a.SessionExpired)
	return a
}

// State returns the current lifecycle state.
func (a *Authenticator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Principal returns the authenticated operator, or nil when signed out or
// in the window between credential issuance and the principal fetch.
func (a *Authenticator) Principal() *api.Principal {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.principal == nil {
		return nil
	}
	p := *a.principal
	return &p
}

// Bootstrap resolves the initial state at process start. A persisted access
// token optimistically restores the session pending a principal fetch; if
// that fetch fails the session is cleared and the client boots anonymous.
func (a *Authenticator) Bootstrap(ctx context.Context) State {
	token, err := a.store.Bootstrap(ctx)
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			a.log.WarnContext(ctx, "failed to read persisted session", "error", err)
		}
		a.setSignedOut(StateAnonymous)
		return StateAnonymous
	}

	a.setState(StateAuthenticated)

	principal, err := a.api.Me(ctx)
	if err != nil {
		a.log.InfoContext(ctx, "session restore failed, booting anonymous", "error", err)
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			a.log.ErrorContext(ctx, "failed to clear session store", "error", clearErr)
		}
		a.setSignedOut(StateAnonymous)
		return StateAnonymous
	}

	a.mu.Lock()
	a.principal = &principal
	a.mu.Unlock()
	return StateAuthenticated
}

// Login authenticates the operator. The outcome is either an established
// session or a first-login challenge; a challenge stores no credentials.
func (a *Authenticator) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if err := input.Validate(); err != nil {
		return LoginResult{}, fmt.Errorf("validate login input: %w", err)
	}

	a.mu.Lock()
	if !a.state.SignedOut() {
		a.mu.Unlock()
		return LoginResult{}, ErrAlreadyAuthenticated
	}
	previous := a.state
	a.state = StateAuthenticating
	a.mu.Unlock()

	resp, err := a.api.Login(ctx, input.Email, input.Password)
	if err != nil {
		a.setState(previous)
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}

	if resp.Challenged() {
		challenge := &Challenge{Email: input.Email, TempPassword: input.Password, Session: resp.Session}
		a.mu.Lock()
		a.challenge = challenge
		a.state = StateChallengePending
		a.mu.Unlock()
		a.notifier.Info("Please set a new password")
		return LoginResult{Challenge: challenge}, nil
	}

	principal, err := a.establishSession(ctx, session.Credentials{
		AccessToken:   resp.AccessToken,
		RefreshToken:  resp.RefreshToken,
		IdentityToken: resp.IDToken,
	})
	if err != nil {
		a.setState(previous)
		return LoginResult{}, err
	}

	a.notifier.Success("Login successful")
	return LoginResult{Principal: principal}, nil
}

// CompleteFirstLogin finishes the forced password rotation. It is callable
// from the pending challenge or directly with the challenge values, and the
// stored challenge is discarded whatever the outcome.
func (a *Authenticator) CompleteFirstLogin(ctx context.Context, input FirstLoginInput) (*api.Principal, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("validate first-login input: %w", err)
	}

	a.mu.Lock()
	a.challenge = nil
	a.mu.Unlock()

	resp, err := a.api.FirstLogin(ctx, input.Email, input.TempPassword, input.NewPassword)
	if err != nil {
		// Abandoned or failed challenge drops back to signed out.
		a.mu.Lock()
		if a.state == StateChallengePending {
			a.state = StateAnonymous
		}
		a.mu.Unlock()
		return nil, fmt.Errorf("complete first login: %w", err)
	}

	principal, err := a.establishSession(ctx, session.Credentials{
		AccessToken:   resp.AccessToken,
		RefreshToken:  resp.RefreshToken,
		IdentityToken: resp.IDToken,
	})
	if err != nil {
		return nil, err
	}

	a.notifier.Success("Password updated successfully")
	return principal, nil
}

// Register creates an account. It never changes the authentication state;
// the new user is directed to log in afterwards.
func (a *Authenticator) Register(ctx context.Context, input RegisterInput) error {
	if err := input.Validate(); err != nil {
		return fmt.Errorf("validate register input: %w", err)
	}
	if err := a.api.Register(ctx, input.Email, input.Password, input.Name); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	a.notifier.Success("Registration successful! Please check your email.")
	return nil
}

// RequestReset dispatches a reset code and arms the confirm step.
func (a *Authenticator) RequestReset(ctx context.Context, input ResetRequestInput) error {
	if err := input.Validate(); err != nil {
		return fmt.Errorf("validate reset request: %w", err)
	}
	if err := a.api.ForgotPassword(ctx, input.Email); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}

	a.mu.Lock()
	a.reset = &resetFlow{email: input.Email, pendingCode: true}
	a.mu.Unlock()

	a.notifier.Success("Reset code sent to your email")
	return nil
}

// ConfirmReset redeems the dispatched code. On success the user stays signed
// out and returns to the login entry point.
func (a *Authenticator) ConfirmReset(ctx context.Context, input ResetConfirmInput) error {
	if err := input.Validate(); err != nil {
		return fmt.Errorf("validate reset confirmation: %w", err)
	}

	a.mu.Lock()
	armed := a.reset != nil && a.reset.pendingCode && a.reset.email == input.Email
	a.mu.Unlock()
	if !armed {
		return ErrNoPendingReset
	}

	if err := a.api.ConfirmForgotPassword(ctx, input.Email, input.Code, input.NewPassword); err != nil {
		return fmt.Errorf("confirm password reset: %w", err)
	}

	a.mu.Lock()
	a.reset = nil
	a.mu.Unlock()

	a.notifier.Success("Password reset successful")
	return nil
}

// Logout clears the session and returns to anonymous. It always succeeds
// locally and is idempotent; no network call is made.
func (a *Authenticator) Logout(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.log.ErrorContext(ctx, "failed to clear session store", "error", err)
	}
	a.setSignedOut(StateAnonymous)
	a.notifier.Success("Logged out successfully")
}

// SessionExpired is the pipeline's terminal-renewal hook. The store is
// already cleared by the pipeline; only the lifecycle state moves.
func (a *Authenticator) SessionExpired() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateAuthenticated {
		return
	}
	a.state = StateExpired
	a.principal = nil
	a.log.Warn("session expired, sign in again")
}

// establishSession persists the credential set and derives the principal.
// A failed principal fetch tears the session back down rather than leaving
// credentials without an identity behind them.
func (a *Authenticator) establishSession(ctx context.Context, creds session.Credentials) (*api.Principal, error) {
	if err := a.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	principal, err := a.api.Me(ctx)
	if err != nil {
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			a.log.ErrorContext(ctx, "failed to clear session store", "error", clearErr)
		}
		return nil, fmt.Errorf("fetch principal: %w", err)
	}

	a.mu.Lock()
	a.principal = &principal
	a.challenge = nil
	a.state = StateAuthenticated
	a.mu.Unlock()
	return &principal, nil
}

func (a *Authenticator) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *Authenticator) setSignedOut(s State) {
	a.mu.Lock()
	a.state = s
	a.principal = nil
	a.challenge = nil
	a.mu.Unlock()
}
