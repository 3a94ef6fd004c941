package domain

import "strings"

type Session struct {
	AccessToken  string
	RefreshToken string
}

func (s Session) Valid() bool {
	return strings.TrimSpace(s.AccessToken) != "" && strings.TrimSpace(s.RefreshToken) != ""
}

type AuthState string

const (
	AuthStateLoggedIn  AuthState = "logged_in"
	AuthStateLoggedOut AuthState = "logged_out"
)

type Credentials struct {
	Username string
	Password string
}

// RenewedAccess is the result of a refresh call. RefreshToken is empty unless
// the server rotated it.
type RenewedAccess struct {
	AccessToken  string
	RefreshToken string
}
