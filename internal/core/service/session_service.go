package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/secretkeeper/secrets/internal/core/domain"
	"github.com/secretkeeper/secrets/internal/core/ports"
)

const (
	defaultSessionTTL = 24 * time.Hour
	sessionIDSize     = 32
)

// SessionService is the session manager. The browser holds a signed token
// naming a session id; the session keeps only the identity, and the user is
// re-read from the credential store on every Resolve.
type SessionService struct {
	store  ports.SessionStore
	users  ports.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewSessionService(store ports.SessionStore, users ports.UserRepository, secret string, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		store:  store,
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

// TTL is the lifetime of a session started now.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Begin moves the browser to the authenticated state for user and returns the
// token to hand back in the session cookie. The session named by
// previousToken, if any, is destroyed first.
func (s *SessionService) Begin(ctx context.Context, user *domain.User, previousToken string) (string, error) {
	if user == nil {
		return "", domain.ErrUnauthenticated
	}

	if previousToken != "" {
		if sid, err := s.parse(previousToken); err == nil {
			if err := s.store.Delete(ctx, sid); err != nil {
				s.log.Warn().Err(err).Msg("drop previous session")
			}
		}
	}

	now := s.now().UTC()
	sess := &domain.Session{
		ID:        newSessionID(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	token, err := s.sign(sess)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Resolve maps a session token back to the current user. Any token that does
// not lead to a live session and an existing user yields domain.ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	sid, err := s.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.store.Load(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.store.Delete(ctx, sid)
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByEmail(ctx, sess.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// End destroys the session named by token. A token that names no session is
// not an error; a failing store is.
func (s *SessionService) End(ctx context.Context, token string) error {
	sid, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionService) sign(sess *domain.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *SessionService) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return "", domain.ErrUnauthenticated
	}
	if claims.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.ID, nil
}

func newSessionID() string {
	b := make([]byte, sessionIDSize)

	// rand.Read never returns an error
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
