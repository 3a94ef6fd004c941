package application

import (
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

type SessionStatus struct {
	State           domain.AuthState
	Profile         string
	Version         uint64
	AccessExpiresAt time.Time
	HasExpiry       bool
}

// Status describes the stored session without touching the network.
func (s *SessionService) Status(profile string, inspector ports.TokenInspector) SessionStatus {
	status := SessionStatus{
		State:   s.store.State(),
		Profile: profile,
		Version: s.store.Version(),
	}

	session, ok := s.store.Session()
	if !ok || inspector == nil {
		return status
	}
	status.AccessExpiresAt, status.HasExpiry = inspector.ExpiresAt(session.AccessToken)
	return status
}
