package security_test

import (
	"strings"
	"testing"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("chai-biscuit-42", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := security.VerifyPassword("chai-biscuit-42", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = security.VerifyPassword("chai-biscuit-43", hash)
	if err != nil {
		t.Fatalf("VerifyPassword wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := security.HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := security.HashPassword("same-password", cfg)
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatal("identical hashes for same password indicate a fixed salt")
	}
}

func TestEmptyPasswordRejected(t *testing.T) {
	if _, err := security.HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("empty password must not hash")
	}
}

func TestMalformedHashesError(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=32768,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=32768,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=32768,t=1,p=1$c2FsdA",
		"$argon2id$v=19$m=32768,t=1,p=1$!!!$aGFzaA",
	}
	for _, encoded := range malformed {
		if _, err := security.VerifyPassword("whatever", encoded); err == nil {
			t.Fatalf("expected error for %q", encoded)
		}
	}
}
