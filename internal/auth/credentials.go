package auth

import (
	"fmt"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type CredentialVerifier interface {
	Verify(username, password string) (domain.Principal, bool)
}

type PrincipalLookup interface {
	Lookup(username string) (domain.Principal, bool)
}

// CredentialStore holds the principals provisioned at startup. It is never
// mutated after construction, so reads need no locking.
type CredentialStore struct {
	principals map[string]domain.Principal
}

func NewCredentialStore(principals ...domain.Principal) *CredentialStore {
	s := &CredentialStore{principals: make(map[string]domain.Principal, len(principals))}
	for _, p := range principals {
		s.principals[p.Username] = p
	}
	return s
}

// NewCredentialStoreFromConfig hashes plaintext seed passwords with the given
// bcrypt cost.
func NewCredentialStoreFromConfig(users []config.UserConfig, cost int) (*CredentialStore, error) {
	principals := make([]domain.Principal, 0, len(users))
	for _, u := range users {
		if u.Username == "" {
			return nil, fmt.Errorf("seed user without username")
		}
		hash := u.PasswordHash
		if hash == "" {
			h, err := HashPassword(u.Password, cost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %s: %w", u.Username, err)
			}
			hash = h
		}
		principals = append(principals, domain.Principal{
			Username:     u.Username,
			PasswordHash: hash,
			IsAdmin:      u.IsAdmin,
		})
	}
	return NewCredentialStore(principals...), nil
}

func (s *CredentialStore) Lookup(username string) (domain.Principal, bool) {
	p, ok := s.principals[username]
	return p, ok
}

// Verify reports whether password matches the stored hash for username.
// Unknown users and mismatches both return false.
func (s *CredentialStore) Verify(username, password string) (domain.Principal, bool) {
	p, ok := s.principals[username]
	if !ok || !VerifyPassword(p.PasswordHash, password) {
		return domain.Principal{}, false
	}
	return p, true
}

func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var (
	_ CredentialVerifier = (*CredentialStore)(nil)
	_ PrincipalLookup    = (*CredentialStore)(nil)
)
