package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

func TestCredentialStoreAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	store := NewCredentialStore([]User{
		{ID: "user-1", Email: "alice@example.com", PasswordHash: string(hash)},
	})

	t.Run("valid credentials", func(t *testing.T) {
		id, err := store.Authenticate("alice@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "user-1", id)
	})

	t.Run("email is case insensitive", func(t *testing.T) {
		id, err := store.Authenticate("Alice@Example.COM", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "user-1", id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.Authenticate("alice@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := store.Authenticate("mallory@example.com", "correct horse")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
