package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

func TestDocumentMapping_HashCredential(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	secret := "hello"
	user := &domain.User{Email: "a@x.com", Credential: domain.HashCredential("$2a$10$hash"), Secret: &secret}

	doc := toDocument(user, now)
	if doc.Password == nil || *doc.Password != "$2a$10$hash" {
		t.Fatalf("expected stored hash, got %v", doc.Password)
	}
	if doc.CreatedAt != now.Unix() || doc.UpdatedAt != now.Unix() {
		t.Fatalf("expected timestamps defaulted to now, got %d/%d", doc.CreatedAt, doc.UpdatedAt)
	}

	doc.ID = primitive.NewObjectID()
	back := fromDocument(doc)
	if back.ID != doc.ID.Hex() || back.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", back)
	}
	if back.Credential != user.Credential {
		t.Fatalf("credential not preserved: %+v", back.Credential)
	}
	if back.SecretOrDefault() != "hello" {
		t.Fatalf("secret not preserved: %q", back.SecretOrDefault())
	}
	if !back.CreatedAt.Equal(now) {
		t.Fatalf("expected %v, got %v", now, back.CreatedAt)
	}
}

func TestDocumentMapping_ProviderAccount(t *testing.T) {
	doc := toDocument(&domain.User{Email: "a@x.com", Credential: domain.NoCredential()}, time.Now())
	if doc.Password != nil {
		t.Fatalf("provider account must not store a password, got %q", *doc.Password)
	}

	back := fromDocument(doc)
	if back.Credential.Kind != domain.CredentialNone {
		t.Fatalf("expected no credential, got %+v", back.Credential)
	}
	if back.ID != "" {
		t.Fatalf("expected empty id for unsaved document, got %q", back.ID)
	}
}
