package domain

import (
	"errors"
	"time"
)

// NoSecretMessage is rendered in place of a secret the user has not submitted yet.
const NoSecretMessage = "No secrets submitted yet."

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHash               = errors.New("password hash failure")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
	ErrProvider           = errors.New("identity provider failure")
)

// CredentialKind tells whether an account can sign in with a local password.
type CredentialKind int

const (
	// CredentialNone marks accounts created through an external provider.
	CredentialNone CredentialKind = iota
	// CredentialHash marks accounts holding a bcrypt digest.
	CredentialHash
)

// Credential is the local sign-in material of a user.
type Credential struct {
	Kind CredentialKind
	Hash string
}

// NoCredential returns the credential of a provider-only account.
func NoCredential() Credential {
	return Credential{Kind: CredentialNone}
}

// HashCredential wraps a password digest.
func HashCredential(hash string) Credential {
	return Credential{Kind: CredentialHash, Hash: hash}
}

// Usable reports whether the credential can be checked against a password.
func (c Credential) Usable() bool {
	return c.Kind == CredentialHash && c.Hash != ""
}

// User models an account identified by its email.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Credential Credential `json:"-"`
	Secret     *string    `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SecretOrDefault returns the stored secret, or NoSecretMessage when none was submitted.
func (u *User) SecretOrDefault() string {
	if u.Secret == nil || *u.Secret == "" {
		return NoSecretMessage
	}
	return *u.Secret
}
