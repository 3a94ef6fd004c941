package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshTimeout = 15 * time.Second
	refreshFlightKey      = "refresh"
)

// RefreshCoordinator renews the access token. Concurrent callers share one
// network renewal and all observe its outcome.
type RefreshCoordinator struct {
	store   *CredentialStore
	gateway ports.AuthGateway
	timeout time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics ports.Metrics
}

func NewRefreshCoordinator(store *CredentialStore, gateway ports.AuthGateway, timeout time.Duration, opts ...Option) *RefreshCoordinator {
	s := newSettings(opts)
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}

	return &RefreshCoordinator{
		store:   store,
		gateway: gateway,
		timeout: timeout,
		logger:  s.logger.With("component", "refresh_coordinator"),
		metrics: s.metrics,
	}
}

// EnsureFreshAccess returns an access token newer than staleAccessToken. When
// the stored token already differs from staleAccessToken it is returned
// without a network call. Rejection of the refresh token clears the session
// and yields domain.ErrSessionExpired.
func (c *RefreshCoordinator) EnsureFreshAccess(ctx context.Context, staleAccessToken string) (string, error) {
	if token, ok := c.alreadyRenewed(staleAccessToken); ok {
		c.metrics.RefreshCompleted(ports.RefreshOutcomeSkipped)
		return token, nil
	}

	// The shared renewal must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	results := c.group.DoChan(refreshFlightKey, func() (any, error) {
		return c.renew(flightCtx, staleAccessToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		if result.Shared {
			c.metrics.RefreshCompleted(ports.RefreshOutcomeShared)
		}
		return result.Val.(string), nil
	}
}

func (c *RefreshCoordinator) alreadyRenewed(staleAccessToken string) (string, bool) {
	if staleAccessToken == "" {
		return "", false
	}
	session, ok := c.store.Session()
	if !ok || session.AccessToken == staleAccessToken {
		return "", false
	}
	return session.AccessToken, true
}

func (c *RefreshCoordinator) renew(ctx context.Context, staleAccessToken string) (string, error) {
	if token, ok := c.alreadyRenewed(staleAccessToken); ok {
		c.metrics.RefreshCompleted(ports.RefreshOutcomeSkipped)
		return token, nil
	}

	version := c.store.Version()
	session, ok := c.store.Session()
	if !ok {
		c.metrics.RefreshCompleted(ports.RefreshOutcomeExpired)
		return "", fmt.Errorf("renew access token: no session: %w", domain.ErrSessionExpired)
	}

	renewCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	renewed, err := c.gateway.Refresh(renewCtx, session.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			c.metrics.RefreshCompleted(ports.RefreshOutcomeExpired)
			c.logger.Info("refresh token rejected, clearing session", "error", err)
			if clearErr := c.store.Clear(ctx); clearErr != nil {
				return "", fmt.Errorf("renew access token: %w", errors.Join(err, clearErr))
			}
			return "", fmt.Errorf("renew access token: %w", err)
		}

		c.metrics.RefreshCompleted(ports.RefreshOutcomeFailed)
		c.logger.Warn("access token renewal failed", "error", err)
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTransientNetworkFailure) {
			err = domain.NewTransientError(err)
		}
		return "", fmt.Errorf("renew access token: %w", err)
	}

	next := domain.Session{AccessToken: renewed.AccessToken, RefreshToken: session.RefreshToken}
	if renewed.RefreshToken != "" {
		next.RefreshToken = renewed.RefreshToken
	}

	applied, err := c.store.CompareAndSet(ctx, version, next)
	if err != nil {
		c.logger.Warn("renewed session could not be persisted", "error", err)
	}
	if !applied {
		current, ok := c.store.Session()
		if !ok {
			c.metrics.RefreshCompleted(ports.RefreshOutcomeExpired)
			return "", fmt.Errorf("renew access token: session cleared during renewal: %w", domain.ErrSessionExpired)
		}
		c.metrics.RefreshCompleted(ports.RefreshOutcomeSkipped)
		return current.AccessToken, nil
	}

	c.metrics.RefreshCompleted(ports.RefreshOutcomeRenewed)
	c.logger.Info("access token renewed", "duration", time.Since(started), "rotated", renewed.RefreshToken != "")
	return next.AccessToken, nil
}
