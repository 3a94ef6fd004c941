package jwt

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/bnema/feedsync/internal/ports"
)

// Inspector reads the exp claim of an access token. Signatures are not
// checked; the server stays the only authority on token validity.
type Inspector struct {
	parser *gojwt.Parser
}

var _ ports.TokenInspector = Inspector{}

func NewInspector() Inspector {
	return Inspector{parser: gojwt.NewParser()}
}

func (i Inspector) ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	parser := i.parser
	if parser == nil {
		parser = gojwt.NewParser()
	}

	claims := gojwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return time.Time{}, false
	}
	return expiresAt.Time, true
}
