package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

// SessionService owns explicit login and logout.
type SessionService struct {
	store   *CredentialStore
	gateway ports.AuthGateway
	logger  *slog.Logger
}

func NewSessionService(store *CredentialStore, gateway ports.AuthGateway, opts ...Option) *SessionService {
	s := newSettings(opts)
	return &SessionService{
		store:   store,
		gateway: gateway,
		logger:  s.logger.With("component", "session_service"),
	}
}

func (s *SessionService) Login(ctx context.Context, credentials domain.Credentials) error {
	session, err := s.gateway.Login(ctx, credentials)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("logged in", "username", credentials.Username)
	return nil
}

// Logout drops the local session. The backend keeps no session state to end.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}

	s.logger.Info("logged out")
	return nil
}

func (s *SessionService) State() domain.AuthState {
	return s.store.State()
}
