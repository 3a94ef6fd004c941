package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

type AuthPaths struct {
	LoginPath   string
	RefreshPath string
}

// Gateway calls the login and refresh endpoints. These calls never carry a
// bearer token and are never replayed.
type Gateway struct {
	Transport ports.Transport
	Paths     AuthPaths
}

var _ ports.AuthGateway = Gateway{}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (g Gateway) Login(ctx context.Context, credentials domain.Credentials) (domain.Session, error) {
	if strings.TrimSpace(credentials.Username) == "" {
		return domain.Session{}, errors.New("username is required")
	}
	if credentials.Password == "" {
		return domain.Session{}, errors.New("password is required")
	}

	resp, err := g.Transport.Send(ctx, domain.Request{
		Method: http.MethodPost,
		Path:   g.Paths.LoginPath,
		Body:   loginRequest{Username: credentials.Username, Password: credentials.Password},
	}, "")
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	var payload tokenPairResponse
	if err := DecodeResponse(resp, &payload); err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	session := domain.Session{AccessToken: payload.Access, RefreshToken: payload.Refresh}
	if !session.Valid() {
		return domain.Session{}, errors.New("login response missing access or refresh token")
	}

	return session, nil
}

// Refresh exchanges the refresh credential for a new access credential. Any
// non-2xx answer means the refresh credential is no longer usable.
func (g Gateway) Refresh(ctx context.Context, refreshToken string) (domain.RenewedAccess, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.RenewedAccess{}, fmt.Errorf("refresh token is empty: %w", domain.ErrSessionExpired)
	}

	resp, err := g.Transport.Send(ctx, domain.Request{
		Method: http.MethodPost,
		Path:   g.Paths.RefreshPath,
		Body:   refreshRequest{Refresh: refreshToken},
	}, "")
	if err != nil {
		return domain.RenewedAccess{}, fmt.Errorf("refresh access token: %w", err)
	}
	if !resp.OK() {
		return domain.RenewedAccess{}, &domain.RequestError{
			Kind:       domain.ErrorKindSessionExpired,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(resp.Body)),
		}
	}

	var payload tokenPairResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return domain.RenewedAccess{}, fmt.Errorf("decode refresh response: %w", err)
	}
	if strings.TrimSpace(payload.Access) == "" {
		return domain.RenewedAccess{}, errors.New("refresh response missing access token")
	}

	return domain.RenewedAccess{AccessToken: payload.Access, RefreshToken: payload.Refresh}, nil
}
