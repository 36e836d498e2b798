package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

const (
	uniqueViolation = "23505"
	// legacyProviderPassword is the placeholder older deployments stored for
	// Google accounts. It is read back as "no local credential".
	legacyProviderPassword = "google"
)

// DBTX is the subset of database/sql used by the repository.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query :=
		`SELECT id, email, password, secret, created_at, updated_at FROM users
		 WHERE email = $1`

	var (
		user     domain.User
		password sql.NullString
		secret   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &password, &secret, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w: %w", domain.ErrStoreUnavailable, err)
	}

	user.Credential = credentialFromColumn(password)
	if secret.Valid {
		user.Secret = &secret.String
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query :=
		`INSERT INTO users (email, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	now := time.Now().UTC()
	created := *user
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = now
	}

	err := r.db.QueryRowContext(ctx, query,
		created.Email, credentialToColumn(created.Credential), created.CreatedAt, created.UpdatedAt).Scan(&created.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return &created, nil
}

func (r *UserRepository) UpdateSecret(ctx context.Context, email, secret string) error {
	query :=
		`UPDATE users SET secret = $1, updated_at = $2
		 WHERE email = $3`

	res, err := r.db.ExecContext(ctx, query, secret, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("update secret: %w: %w", domain.ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update secret: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func credentialFromColumn(v sql.NullString) domain.Credential {
	if !v.Valid || v.String == "" || v.String == legacyProviderPassword {
		return domain.NoCredential()
	}
	return domain.HashCredential(v.String)
}

func credentialToColumn(c domain.Credential) sql.NullString {
	if !c.Usable() {
		return sql.NullString{}
	}
	return sql.NullString{String: c.Hash, Valid: true}
}
