package auth

import (
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Authenticator exchanges a username and password for an access token.
type Authenticator struct {
	credentials CredentialVerifier
	tokens      TokenIssuer
	ttl         time.Duration
}

func NewAuthenticator(credentials CredentialVerifier, tokens TokenIssuer, ttl time.Duration) *Authenticator {
	return &Authenticator{credentials: credentials, tokens: tokens, ttl: ttl}
}

func (a *Authenticator) Login(username, password string) (AccessToken, error) {
	p, ok := a.credentials.Verify(username, password)
	if !ok {
		return AccessToken{}, domain.ErrUnauthenticated
	}
	return a.tokens.Issue(p.Username, a.ttl)
}
