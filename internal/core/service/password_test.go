package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/secretkeeper/secrets/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher()

	for _, pwd := range []string{"secret1", "", "pässwörd", strings.Repeat("x", 72)} {
		hash, err := h.Hash(pwd)
		if err != nil {
			t.Fatalf("Hash(%q) returned error: %v", pwd, err)
		}
		if hash == pwd {
			t.Fatalf("expected digest, got plaintext")
		}
		ok, err := h.Verify(pwd, hash)
		if err != nil || !ok {
			t.Fatalf("Verify(%q) = %v, %v; want true, nil", pwd, ok, err)
		}
	}
}

func TestBcryptHasher_Cost(t *testing.T) {
	hash, err := NewBcryptHasher().Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if cost != PasswordCost {
		t.Fatalf("expected cost %d, got %d", PasswordCost, cost)
	}
}

func TestBcryptHasher_SaltedDigests(t *testing.T) {
	h := NewBcryptHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for the same password")
	}
}

func TestBcryptHasher_Mismatch(t *testing.T) {
	h := NewBcryptHasher()
	hash, _ := h.Hash("secret1")

	ok, err := h.Verify("secret2", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestBcryptHasher_CorruptHash(t *testing.T) {
	ok, err := NewBcryptHasher().Verify("secret1", "google")
	if ok {
		t.Fatalf("corrupt hash must never verify")
	}
	if !errors.Is(err, domain.ErrHash) {
		t.Fatalf("expected ErrHash, got %v", err)
	}
}

func TestBcryptHasher_LongPasswordRoundTrip(t *testing.T) {
	h := NewBcryptHasher()
	long := strings.Repeat("x", 80)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := h.Verify(long, hash)
	if err != nil || !ok {
		t.Fatalf("expected long password to verify, ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify(strings.Repeat("y", 80), hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestBcryptHasher_LongPasswordReadsFirst72Bytes(t *testing.T) {
	h := NewBcryptHasher()
	prefix := strings.Repeat("a", MaxPasswordBytes)

	hash, err := h.Hash(prefix + "tail-one")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := h.Verify(prefix+"tail-two", hash)
	if err != nil || !ok {
		t.Fatalf("expected bytes past %d to be ignored, ok=%v err=%v", MaxPasswordBytes, ok, err)
	}
}
