package ports

import (
	"context"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

// UserRepository defines the Credential Store: users keyed by email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts a user and returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateSecret(ctx context.Context, email, secret string) error
	Ping(ctx context.Context) error
}

// SessionStore persists sessions by id.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	Load(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher is a one-way salted hash with verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false on mismatch and an error only on internal failure.
	Verify(plaintext, hash string) (bool, error)
}

// IdentityProvider runs the OAuth2 authorization-code exchange.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (domain.ProviderIdentity, error)
}
