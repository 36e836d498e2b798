package ports

import (
	"context"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	LoginWithProvider(ctx context.Context, identity domain.ProviderIdentity) (*domain.User, error)
}

type SessionService interface {
	Begin(ctx context.Context, user *domain.User, previousToken string) (string, error)
	Resolve(ctx context.Context, token string) (*domain.User, error)
	End(ctx context.Context, token string) error
}

type SecretService interface {
	View(ctx context.Context, user *domain.User) (string, error)
	Submit(ctx context.Context, user *domain.User, secret string) error
}
