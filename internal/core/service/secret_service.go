package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

// SecretService reads and writes the single secret attached to an account.
type SecretService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewSecretService(repo ports.UserRepository, log zerolog.Logger) *SecretService {
	return &SecretService{repo: repo, log: log}
}

// View returns the user's secret or domain.NoSecretMessage.
func (s *SecretService) View(ctx context.Context, user *domain.User) (string, error) {
	if user == nil {
		return "", domain.ErrUnauthenticated
	}

	current, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("read secret")
		return "", err
	}
	return current.SecretOrDefault(), nil
}

// Submit overwrites the user's secret. Any text, including empty, is accepted.
func (s *SecretService) Submit(ctx context.Context, user *domain.User, secret string) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}

	if err := s.repo.UpdateSecret(ctx, user.Email, secret); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("update secret")
		return err
	}
	return nil
}
