package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

// AuthService implements registration plus the local and provider sign-in strategies.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, log: log}
}

// Register creates a local account. Email uniqueness is enforced by the store:
// a taken email surfaces as domain.ErrUserExists from Create.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("hash password")
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:      email,
		Credential: domain.HashCredential(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.log.Error().Err(err).Str("email", email).Msg("create user")
		}
		return nil, err
	}
	return created, nil
}

// Login runs the local strategy: exact email lookup, then password verification.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Error().Err(err).Str("email", email).Msg("find user")
		}
		return nil, err
	}

	if !user.Credential.Usable() {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.Credential.Hash)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("compare password")
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithProvider runs the OAuth2 strategy: the asserted email maps to exactly
// one local user, created without a local credential on first sign-in.
func (s *AuthService) LoginWithProvider(ctx context.Context, identity domain.ProviderIdentity) (*domain.User, error) {
	if identity.Email == "" {
		return nil, fmt.Errorf("%w: %s returned no email", domain.ErrProvider, identity.Provider)
	}

	user, err := s.repo.FindByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		s.log.Error().Err(err).Str("email", identity.Email).Msg("find user")
		return nil, err
	}

	now := time.Now().UTC()
	user, err = s.repo.Create(ctx, &domain.User{
		Email:      identity.Email,
		Credential: domain.NoCredential(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	switch {
	case err == nil:
		s.log.Info().Str("email", identity.Email).Str("provider", identity.Provider).Msg("user created from provider identity")
		return user, nil
	case errors.Is(err, domain.ErrUserExists):
		// a concurrent sign-in created the row first
		return s.repo.FindByEmail(ctx, identity.Email)
	default:
		s.log.Error().Err(err).Str("email", identity.Email).Msg("create user")
		return nil, err
	}
}
