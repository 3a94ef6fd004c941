package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// AccessRenewer is satisfied by RefreshCoordinator.
type AccessRenewer interface {
	EnsureFreshAccess(ctx context.Context, staleAccessToken string) (string, error)
}

// Executor attaches the current access token to a request and, on a 401,
// renews it once and replays the request once.
type Executor struct {
	transport ports.Transport
	store     *CredentialStore
	renewer   AccessRenewer
	inspector ports.TokenInspector
	skew      time.Duration
	clock     ports.Clock
	logger    *slog.Logger
	metrics   ports.Metrics
}

var _ ports.RequestExecutor = (*Executor)(nil)

func NewExecutor(transport ports.Transport, store *CredentialStore, renewer AccessRenewer, opts ...Option) *Executor {
	s := newSettings(opts)
	return &Executor{
		transport: transport,
		store:     store,
		renewer:   renewer,
		clock:     s.clock,
		logger:    s.logger.With("component", "executor"),
		metrics:   s.metrics,
	}
}

// WithProactiveRefresh renews tokens that expire within skew before the first
// attempt.
func (e *Executor) WithProactiveRefresh(inspector ports.TokenInspector, skew time.Duration) *Executor {
	e.inspector = inspector
	e.skew = skew
	return e
}

func (e *Executor) Execute(ctx context.Context, req domain.Request) (*domain.Response, error) {
	session, ok := e.store.Session()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, domain.ErrUnauthenticated)
	}

	req = withRequestID(req)
	requestID := req.Header.Get(RequestIDHeader)
	logger := e.logger.With("method", req.Method, "path", req.Path, "request_id", requestID)

	token := session.AccessToken
	renewedOnce := false
	if e.expiringSoon(token) {
		renewed, err := e.renewer.EnsureFreshAccess(ctx, token)
		switch {
		case err == nil:
			token = renewed
			renewedOnce = true
		case errors.Is(err, domain.ErrSessionExpired):
			return nil, err
		default:
			logger.Debug("proactive renewal failed, sending current token", "error", err)
		}
	}

	resp, err := e.send(ctx, req, token, false)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	// One renewal per logical call: a 401 right after a proactive renewal is final.
	if renewedOnce {
		logger.Debug("access token rejected after proactive renewal")
		return resp, nil
	}

	logger.Debug("access token rejected, renewing")
	renewed, err := e.renewer.EnsureFreshAccess(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	return e.send(ctx, req, renewed, true)
}

func (e *Executor) send(ctx context.Context, req domain.Request, token string, replay bool) (*domain.Response, error) {
	e.metrics.RequestAttempt(replay)

	resp, err := e.transport.Send(ctx, req, token)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	e.logger.Debug("request attempt",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"replay", replay,
		"request_id", req.Header.Get(RequestIDHeader),
	)
	return resp, nil
}

func (e *Executor) expiringSoon(token string) bool {
	if e.inspector == nil {
		return false
	}
	expiresAt, ok := e.inspector.ExpiresAt(token)
	if !ok {
		return false
	}
	return !e.clock.Now().Add(e.skew).Before(expiresAt)
}

func withRequestID(req domain.Request) domain.Request {
	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get(RequestIDHeader) == "" {
		header.Set(RequestIDHeader, uuid.NewString())
	}
	req.Header = header
	return req
}
