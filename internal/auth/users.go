package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// User is a configured account allowed to log in.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
}

// CredentialStore checks login credentials against the configured users.
type CredentialStore struct {
	byEmail map[string]User
}

// NewCredentialStore indexes users by lowercased email.
func NewCredentialStore(users []User) *CredentialStore {
	byEmail := make(map[string]User, len(users))
	for _, u := range users {
		byEmail[strings.ToLower(u.Email)] = u
	}
	return &CredentialStore{byEmail: byEmail}
}

// Authenticate returns the owner id for a valid email/password pair.
// Unknown emails and wrong passwords both yield domain.ErrUnauthorized.
func (s *CredentialStore) Authenticate(email, password string) (string, error) {
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrUnauthorized
	}
	return u.ID, nil
}
