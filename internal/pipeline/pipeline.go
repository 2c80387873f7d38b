// Package pipeline wraps every outbound back-office API call. It attaches the
// current access token, transparently renews it once on an authorization
// failure, and normalizes everything else into notified, caller-facing
// errors. Callers never see tokens or retries.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"backoffice/internal/platform/metrics"
	"backoffice/internal/notify"
	"backoffice/internal/session"
)

const (
	refreshPath = "/auth/refresh"
	// renewalKey collapses concurrent renewals into one flight. There is only
	// ever one session, so a single key suffices.
	renewalKey = "renewal"

	defaultRequestTimeout = 30 * time.Second
	defaultRefreshTimeout = 10 * time.Second
)

// Config assembles a Pipeline. Store, Notifier, Logger and Metrics are
// required; HTTPClient and the timeouts default when zero.
type Config struct {
	BaseURL        string
	Store          session.Store
	Notifier       notify.Notifier
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
}

// Pipeline is the single entry point for outbound API calls. All CRUD
// collaborators and the auth state machine go through Do.
type Pipeline struct {
	base           *url.URL
	http           *http.Client
	store          session.Store
	notifier       notify.Notifier
	log            *slog.Logger
	metrics        *metrics.Metrics
	refreshTimeout time.Duration
	renewal        singleflight.Group
	onExpired      func()
	tracer         trace.Tracer
}

// New builds a Pipeline from cfg.
func New(cfg Config) (*Pipeline, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout == 0 {
			timeout = defaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	refreshTimeout := cfg.RefreshTimeout
	if refreshTimeout == 0 {
		refreshTimeout = defaultRefreshTimeout
	}

	return &Pipeline{
		base:           base,
		http:           httpClient,
		store:          cfg.Store,
		notifier:       cfg.Notifier,
		log:            cfg.Logger,
		metrics:        cfg.Metrics,
		refreshTimeout: refreshTimeout,
		tracer:         otel.Tracer("backoffice/pipeline"),
	}, nil
}

// OnSessionExpired registers the hook fired when token renewal fails
// terminally, after the session store has been cleared. The auth state
// machine uses it to move to the expired state.
func (p *Pipeline) OnSessionExpired(fn func()) {
	p.onExpired = fn
}

type callOptions struct {
	withoutAuth bool
}

// CallOption adjusts how a single call is dispatched.
type CallOption func(*callOptions)

// WithoutAuth marks a call as unauthenticated-exempt: no bearer token is
// attached and an authorization failure is surfaced as-is instead of entering
// the renewal branch. Login, register and password reset calls use this;
// they have no prior session to refresh.
func WithoutAuth() CallOption {
	return func(o *callOptions) { o.withoutAuth = true }
}

// Do performs one JSON API call. body is marshaled when non-nil; a 2xx
// response is decoded into out when out is non-nil. On a 401 with a token
// attached it renews the access token (single-flight across concurrent
// callers) and resubmits the original call exactly once. Any other failure is
// normalized, handed to the notifier and returned as *APIError.
func (p *Pipeline) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	var options callOptions
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := p.tracer.Start(ctx, method+" "+path, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	err := p.do(ctx, span, method, path, body, out, options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *Pipeline) do(ctx context.Context, span trace.Span, method, path string, body, out any, options callOptions) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = raw
	}

	token := ""
	if !options.withoutAuth {
		current, err := p.store.AccessToken(ctx)
		switch {
		case err == nil:
			token = current
		case errors.Is(err, session.ErrNotFound):
			// No session yet: dispatch unauthenticated.
		default:
			return fmt.Errorf("read access token: %w", err)
		}
	}

	requestID := uuid.NewString()
	span.SetAttributes(attribute.String("request.id", requestID))

	status, respBody, err := p.send(ctx, method, path, payload, token, requestID)
	if err != nil {
		p.metrics.IncrementRequests(metrics.OutcomeFailure)
		p.notifier.Error(GenericErrorMessage)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if status == http.StatusUnauthorized && token != "" {
		renewed, renewErr := p.renew(ctx)
		if renewErr != nil {
			// The store is cleared and the expiry hook has fired; the login
			// redirect handles messaging, so no notification here.
			p.metrics.IncrementRequests(metrics.OutcomeExpired)
			return renewErr
		}

		p.metrics.IncrementRetries()
		span.SetAttributes(attribute.Bool("request.retried", true))
		p.log.DebugContext(ctx, "resubmitting request after token renewal",
			"method", method, "path", path, "request_id", requestID)

		// Exactly one resubmission. A second authorization failure falls
		// through to normalization like any other error.
		status, respBody, err = p.send(ctx, method, path, payload, renewed, requestID)
		if err != nil {
			p.metrics.IncrementRequests(metrics.OutcomeFailure)
			p.notifier.Error(GenericErrorMessage)
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	if status < 200 || status > 299 {
		message := extractMessage(respBody)
		p.metrics.IncrementRequests(metrics.OutcomeFailure)
		p.notifier.Error(message)
		return &APIError{StatusCode: status, Message: message}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			p.metrics.IncrementRequests(metrics.OutcomeFailure)
			return fmt.Errorf("decode response body: %w", err)
		}
	}

	p.metrics.IncrementRequests(metrics.OutcomeSuccess)
	return nil
}

// send performs a single HTTP exchange and drains the body so the connection
// can be reused.
func (p *Pipeline) send(ctx context.Context, method, path string, payload []byte, token, requestID string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.base.JoinPath(path).String(), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// renew exchanges the refresh token for a new access token. Concurrent
// callers share one exchange: the single-flight group guarantees at most one
// renewal is in flight, and every waiter observes the same outcome. Without
// this, concurrent 401s would race each other's refresh tokens and spuriously
// log the operator out.
func (p *Pipeline) renew(ctx context.Context) (string, error) {
	result, err, _ := p.renewal.Do(renewalKey, func() (any, error) {
		return p.exchangeRefreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// exchangeRefreshToken posts to the refresh endpoint directly, outside Do, so
// renewal itself can never recurse into the retry branch. Any failure is
// terminal: the session is cleared and the expiry hook fires.
func (p *Pipeline) exchangeRefreshToken(ctx context.Context) (string, error) {
	// The exchange is detached from the initiating request's cancellation:
	// other requests may be waiting on this flight. The refresh timeout
	// bounds it instead, so a hung renewal cannot stall every waiter forever.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.refreshTimeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "POST "+refreshPath)
	defer span.End()

	refreshToken, err := p.store.RefreshToken(ctx)
	if err != nil {
		return "", p.terminate(ctx, span, fmt.Errorf("no refresh token: %w", err))
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", p.terminate(ctx, span, fmt.Errorf("encode refresh request: %w", err))
	}

	status, respBody, err := p.send(ctx, http.MethodPost, refreshPath, payload, "", uuid.NewString())
	if err != nil {
		return "", p.terminate(ctx, span, fmt.Errorf("refresh call failed: %w", err))
	}
	if status != http.StatusOK {
		return "", p.terminate(ctx, span, fmt.Errorf("refresh rejected with status %d", status))
	}

	var renewed refreshResponse
	if err := json.Unmarshal(respBody, &renewed); err != nil {
		return "", p.terminate(ctx, span, fmt.Errorf("decode refresh response: %w", err))
	}
	if renewed.AccessToken == "" {
		return "", p.terminate(ctx, span, errors.New("refresh response missing access token"))
	}

	// The backend may rotate the refresh token; store whatever came back.
	if err := p.store.Save(ctx, session.Credentials{
		AccessToken:  renewed.AccessToken,
		RefreshToken: renewed.RefreshToken,
	}); err != nil {
		return "", p.terminate(ctx, span, fmt.Errorf("save renewed credentials: %w", err))
	}

	p.metrics.IncrementTokenRefresh(metrics.OutcomeSuccess)
	p.log.InfoContext(ctx, "access token renewed")
	return renewed.AccessToken, nil
}

// terminate handles a failed renewal: clear the session, fire the expiry
// hook, and hand every waiter the same ErrSessionExpired.
func (p *Pipeline) terminate(ctx context.Context, span trace.Span, cause error) error {
	p.metrics.IncrementTokenRefresh(metrics.OutcomeFailure)
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	p.log.WarnContext(ctx, "token renewal failed, ending session", "error", cause)

	if err := p.store.Clear(ctx); err != nil {
		p.log.ErrorContext(ctx, "failed to clear session store", "error", err)
	}
	if p.onExpired != nil {
		p.onExpired()
	}
	return ErrSessionExpired
}

type errorResponse struct {
	Message string `json:"message"`
}

// extractMessage pulls the backend-supplied message out of an error body,
// falling back to the generic message.
func extractMessage(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return GenericErrorMessage
}
