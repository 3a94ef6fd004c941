package ports

import (
	"context"
	"time"

	"github.com/bnema/feedsync/internal/domain"
)

// AuthGateway talks to the unauthenticated login and refresh endpoints.
type AuthGateway interface {
	Login(ctx context.Context, credentials domain.Credentials) (domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (domain.RenewedAccess, error)
}

// TokenInspector reads the expiry of an access token without validating it.
type TokenInspector interface {
	ExpiresAt(token string) (expiresAt time.Time, ok bool)
}
