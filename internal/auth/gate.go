package auth

import (
	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Gate is the authorization boundary. Both checks return a typed error
// instead of aborting, so callers decide how to render the failure.
type Gate struct {
	tokens     TokenValidator
	principals PrincipalLookup
}

func NewGate(tokens TokenValidator, principals PrincipalLookup) *Gate {
	return &Gate{tokens: tokens, principals: principals}
}

// RequireAuthenticated resolves the token to a known principal. Missing,
// invalid and expired tokens all yield domain.ErrUnauthenticated.
func (g *Gate) RequireAuthenticated(token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	subject, err := g.tokens.Validate(token)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	p, ok := g.principals.Lookup(subject)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

func (g *Gate) RequireAdmin(token string) (domain.Principal, error) {
	p, err := g.RequireAuthenticated(token)
	if err != nil {
		return domain.Principal{}, err
	}
	if !p.IsAdmin {
		return domain.Principal{}, domain.ErrForbidden
	}
	return p, nil
}
